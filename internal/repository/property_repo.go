package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"property-management-backend/internal/models"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) GetAll() ([]models.Property, error) {
	var properties []models.Property
	err := r.db.Order("name ASC").Find(&properties).Error
	return properties, err
}

func (r *PropertyRepository) GetByID(id uuid.UUID) (*models.Property, error) {
	var p models.Property
	err := r.db.First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) Create(p *models.Property) error {
	return r.db.Create(p).Error
}

func (r *PropertyRepository) GetRooms(propertyID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Where("property_id = ?", propertyID).Order("name ASC").Find(&rooms).Error
	return rooms, err
}

func (r *PropertyRepository) GetRoomByID(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.First(&room, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *PropertyRepository) CreateRoom(room *models.Room) error {
	return r.db.Create(room).Error
}
