package postgres

import (
	"encoding/hex"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// SourceDetails is what a Postgres source needs to start replicating without querying the
// upstream again.
type SourceDetails struct {
	Tables []TableInfo
	Slot   string
}

// field numbers of the encoded details
const (
	detailsTablesField protowire.Number = 1
	detailsSlotField   protowire.Number = 2

	tableOIDField       protowire.Number = 1
	tableNamespaceField protowire.Number = 2
	tableNameField      protowire.Number = 3
	tableColumnsField   protowire.Number = 4

	columnNameField       protowire.Number = 1
	columnTypeOIDField    protowire.Number = 2
	columnTypeModField    protowire.Number = 3
	columnNullableField   protowire.Number = 4
	columnPrimaryKeyField protowire.Number = 5
)

// Encode returns the hex encoded protobuf representation of the details.
func (d *SourceDetails) Encode() string {
	var b []byte
	for _, t := range d.Tables {
		b = protowire.AppendTag(b, detailsTablesField, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeTable(t))
	}
	b = appendString(b, detailsSlotField, d.Slot)
	return hex.EncodeToString(b)
}

func encodeTable(t TableInfo) []byte {
	var b []byte
	b = appendVarint(b, tableOIDField, uint64(t.OID))
	b = appendString(b, tableNamespaceField, t.Namespace)
	b = appendString(b, tableNameField, t.Name)
	for _, c := range t.Columns {
		var cb []byte
		cb = appendString(cb, columnNameField, c.Name)
		cb = appendVarint(cb, columnTypeOIDField, uint64(c.TypeOID))
		cb = appendVarint(cb, columnTypeModField, uint64(int64(c.TypeMod)))
		cb = appendVarint(cb, columnNullableField, protowire.EncodeBool(c.Nullable))
		cb = appendVarint(cb, columnPrimaryKeyField, protowire.EncodeBool(c.PrimaryKey))
		b = protowire.AppendTag(b, tableColumnsField, protowire.BytesType)
		b = protowire.AppendBytes(b, cb)
	}
	return b
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// DecodeSourceDetails parses the output of SourceDetails.Encode.
func DecodeSourceDetails(s string) (*SourceDetails, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding source details: %w", err)
	}
	d := &SourceDetails{}
	err = walk(b, func(num protowire.Number, v uint64, raw []byte) error {
		switch num {
		case detailsTablesField:
			t, err := decodeTable(raw)
			if err != nil {
				return err
			}
			d.Tables = append(d.Tables, t)
		case detailsSlotField:
			d.Slot = string(raw)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decoding source details: %w", err)
	}
	return d, nil
}

func decodeTable(b []byte) (TableInfo, error) {
	var t TableInfo
	err := walk(b, func(num protowire.Number, v uint64, raw []byte) error {
		switch num {
		case tableOIDField:
			t.OID = uint32(v)
		case tableNamespaceField:
			t.Namespace = string(raw)
		case tableNameField:
			t.Name = string(raw)
		case tableColumnsField:
			var c ColumnInfo
			err := walk(raw, func(num protowire.Number, v uint64, raw []byte) error {
				switch num {
				case columnNameField:
					c.Name = string(raw)
				case columnTypeOIDField:
					c.TypeOID = uint32(v)
				case columnTypeModField:
					c.TypeMod = int32(v)
				case columnNullableField:
					c.Nullable = protowire.DecodeBool(v)
				case columnPrimaryKeyField:
					c.PrimaryKey = protowire.DecodeBool(v)
				}
				return nil
			})
			if err != nil {
				return err
			}
			t.Columns = append(t.Columns, c)
		}
		return nil
	})
	return t, err
}

var errMalformed = errors.New("malformed message")

// walk calls fn for every varint and length delimited field of b.
func walk(b []byte, fn func(num protowire.Number, v uint64, raw []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errMalformed
		}
		b = b[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return errMalformed
			}
			b = b[n:]
			if err := fn(num, v, nil); err != nil {
				return err
			}
		case protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return errMalformed
			}
			b = b[n:]
			if err := fn(num, 0, raw); err != nil {
				return err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errMalformed
			}
			b = b[n:]
		}
	}
	return nil
}
