package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type Dealer struct {
	Code  int
	State string
}

// Dealers maps a numeric dealer code to its dealer.
type Dealers struct {
	byCode     map[int]Dealer
	Duplicates int
}

func NewDealers(dealers ...Dealer) Dealers {
	d := Dealers{byCode: make(map[int]Dealer, len(dealers))}
	for _, dealer := range dealers {
		d.add(dealer)
	}
	return d
}

func (d *Dealers) add(dealer Dealer) {
	if _, exists := d.byCode[dealer.Code]; exists {
		d.Duplicates++
		return
	}
	d.byCode[dealer.Code] = dealer
}

func (d Dealers) Lookup(code int) (Dealer, bool) {
	dealer, ok := d.byCode[code]
	return dealer, ok
}

func (d Dealers) Len() int {
	return len(d.byCode)
}

func LoadDealers(path string) (Dealers, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dealers{}, err
	}
	defer f.Close()

	dealers, err := ReadDealers(f)
	if err != nil {
		return Dealers{}, fmt.Errorf("read %s: %w", path, err)
	}
	return dealers, nil
}

// ReadDealers reads a dealer table with a header row, only the `dealerId` and
// `state` columns are used. When a code appears more than once the first row wins.
func ReadDealers(r io.Reader) (Dealers, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Dealers{}, fmt.Errorf("read header: %w", err)
	}
	codeIdx, stateIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "dealerId":
			codeIdx = i
		case "state":
			stateIdx = i
		}
	}
	if codeIdx < 0 || stateIdx < 0 {
		return Dealers{}, errors.New("dealer table needs both a `dealerId` and a `state` column")
	}

	dealers := NewDealers()
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return Dealers{}, err
		}
		if codeIdx >= len(record) || stateIdx >= len(record) {
			return Dealers{}, fmt.Errorf("line %d: expected at least %d columns", line, max(codeIdx, stateIdx)+1)
		}

		code, err := strconv.Atoi(strings.TrimSpace(record[codeIdx]))
		if err != nil {
			return Dealers{}, fmt.Errorf("line %d: dealer id: %w", line, err)
		}
		dealers.add(Dealer{
			Code:  code,
			State: strings.TrimSpace(record[stateIdx]),
		})
	}
	return dealers, nil
}
