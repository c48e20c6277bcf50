package ast

// Envelope describes the change semantics of the records of a source.
// A nil Envelope is equivalent to EnvelopeNone.
type Envelope interface {
	isEnvelope()
}

type DbzMode int

const (
	DbzModePlain DbzMode = iota
	DbzModeUpsert
)

type (
	EnvelopeNone     struct{}
	EnvelopeDebezium struct {
		Mode DbzMode
	}
	EnvelopeUpsert struct{}
	EnvelopeCdcV2  struct{}
)

func (EnvelopeNone) isEnvelope()     {}
func (EnvelopeDebezium) isEnvelope() {}
func (EnvelopeUpsert) isEnvelope()   {}
func (EnvelopeCdcV2) isEnvelope()    {}

// IsDebeziumUpsert reports whether e is ENVELOPE DEBEZIUM UPSERT, held by value or by pointer.
func IsDebeziumUpsert(e Envelope) bool {
	switch dbz := e.(type) {
	case EnvelopeDebezium:
		return dbz.Mode == DbzModeUpsert
	case *EnvelopeDebezium:
		return dbz != nil && dbz.Mode == DbzModeUpsert
	default:
		return false
	}
}
