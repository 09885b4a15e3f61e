package graphql

import (
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application"
)

// Error is returned by resolvers; the executor copies Extensions into the response error.
type Error struct {
	Message string
	Code    application.Kind
}

func (e *Error) Error() string { return e.Message }

// Extensions exposes the error kind as extensions.code.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

func toGraphQLError(err error) error {
	kind := application.KindOf(err)
	message := err.Error()
	if kind == application.KindInternal {
		message = "internal error"
	}
	return &Error{Message: message, Code: kind}
}
