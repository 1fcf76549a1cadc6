package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Record flattens the attribute map into its stored row representation.
// Integers and floats are rendered as decimal strings; relationship lists
// are joined with ListSeparator. An empty list renders as an empty cell.
func (e *Entity) Record() Row {
	row := make(Row, len(e.attrs))
	for name, value := range e.attrs {
		switch v := value.(type) {
		case string:
			row[name] = v
		case int:
			row[name] = strconv.Itoa(v)
		case float64:
			row[name] = strconv.FormatFloat(v, 'g', -1, 64)
		case []string:
			row[name] = strings.Join(v, ListSeparator)
		}
	}
	return row
}

// decodeRow converts a stored row back into an attribute map using the
// kind's schema. Declared integer and float cells are parsed back to their
// scalar kinds; an empty id-list cell decodes as an absent relationship.
func decodeRow(kind Kind, row Row) (map[string]any, error) {
	sch, err := SchemaFor(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, kind)
	}
	attrs := make(map[string]any, len(row))
	for name, cell := range row {
		switch sch.Fields[name] {
		case FieldInt:
			n, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrValidation, name, err)
			}
			attrs[name] = n
		case FieldFloat:
			f, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrValidation, name, err)
			}
			attrs[name] = f
		case FieldIDList:
			if cell == "" {
				continue
			}
			attrs[name] = strings.Split(cell, ListSeparator)
		default:
			attrs[name] = cell
		}
	}
	return attrs, nil
}
