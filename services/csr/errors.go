package csr

import (
	"errors"
	"net/http"

	"github.com/confluentinc/confluent-kafka-go/v2/schemaregistry/rest"
)

var (
	// ErrSubjectNotFound is returned when the subject, or the requested version of it, does not exist
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrSchemaNotFound is returned when no schema has the requested id
	ErrSchemaNotFound = errors.New("schema not found")
)

// registry error codes, see https://docs.confluent.io/platform/current/schema-registry/develop/api.html#errors
const (
	codeSubjectNotFound = 40401
	codeVersionNotFound = 40402
	codeSchemaNotFound  = 40403
)

func translateError(err error) error {
	var restErr *rest.Error
	if !errors.As(err, &restErr) {
		return err
	}
	switch restErr.Code {
	case codeSubjectNotFound, codeVersionNotFound:
		return errors.Join(ErrSubjectNotFound, err)
	case codeSchemaNotFound:
		return errors.Join(ErrSchemaNotFound, err)
	case http.StatusNotFound:
		return errors.Join(ErrSubjectNotFound, err)
	default:
		return err
	}
}
