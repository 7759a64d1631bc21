package ledger

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Row is one line of a platform settlement export. Rows only live for
// the duration of a single reconciliation pass.
type Row struct {
	Reference string          `json:"reference"`
	GuestName string          `json:"guest_name"`
	Net       decimal.Decimal `json:"net"`
}

// ParseResult carries the usable rows plus a count of rows dropped for
// a missing/short reference or an unparseable amount. Dropped rows are
// counted rather than silently discarded so the caller can surface them.
type ParseResult struct {
	Rows    []Row
	Dropped int
}

// MinReferenceLen rejects references too short to match anything
// specific; containment matching makes short references dangerous.
const MinReferenceLen = 3

var referenceAliases = []string{"reference", "ref", "reservation", "booking id", "booking number", "confirmation"}
var guestAliases = []string{"guest", "guest name", "name", "booker"}
var amountAliases = []string{"net", "net amount", "amount", "payout", "total"}

// Parse reads a delimited settlement export. The first row must be a
// header naming at least a reference column and a net-amount column.
func Parse(r io.Reader) (*ParseResult, error) {
	br := bufio.NewReader(r)

	delim, err := sniffDelimiter(br)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading ledger header: %w", err)
	}

	refCol := findColumn(header, referenceAliases)
	guestCol := findColumn(header, guestAliases)
	amountCol := findColumn(header, amountAliases)
	if refCol < 0 || amountCol < 0 {
		return nil, fmt.Errorf("ledger header missing reference or amount column: %v", header)
	}

	result := &ParseResult{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Dropped++
			continue
		}
		if strings.Join(record, "") == "" {
			continue
		}
		if len(record) <= refCol || len(record) <= amountCol {
			result.Dropped++
			continue
		}

		ref := strings.TrimSpace(record[refCol])
		if len(ref) < MinReferenceLen {
			result.Dropped++
			continue
		}

		net, err := parseAmount(record[amountCol])
		if err != nil {
			result.Dropped++
			continue
		}

		guest := ""
		if guestCol >= 0 && len(record) > guestCol {
			guest = strings.TrimSpace(record[guestCol])
		}

		result.Rows = append(result.Rows, Row{
			Reference: ref,
			GuestName: guest,
			Net:       net,
		})
	}

	return result, nil
}

// sniffDelimiter peeks at the first KB and picks comma, tab or
// semicolon, whichever appears first.
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	sample, err := br.Peek(1024)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("sniffing ledger delimiter: %w", err)
	}
	for _, c := range string(sample) {
		switch c {
		case ',', '\t', ';':
			return c, nil
		case '\n':
			// end of header line, nothing found
			return ',', nil
		}
	}
	return ',', nil
}

func findColumn(header []string, aliases []string) int {
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for _, a := range aliases {
			if name == a {
				return i
			}
		}
	}
	// second pass: prefix match tolerates headers like "Reference code"
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for _, a := range aliases {
			if strings.HasPrefix(name, a) {
				return i
			}
		}
	}
	return -1
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	return decimal.NewFromString(s)
}
