package ratesource

import (
	"github.com/amirasaad/ratesync/pkg/controller"
	"github.com/amirasaad/ratesync/pkg/notice"
)

// FieldEdit is one field change. Edits are applied in request order since
// a field may only become editable after an earlier one (e.g. enabled).
type FieldEdit struct {
	Field string `json:"field" validate:"required"`
	Value any    `json:"value"`
}

// PatchRequest carries the edits of a PATCH on the configuration.
type PatchRequest struct {
	Edits []FieldEdit `json:"edits" validate:"required,min=1,dive"`
}

// CurrencyRequest names the base currency to add.
type CurrencyRequest struct {
	Code string `json:"code" validate:"max=3"`
}

// ConfigResponse is returned by every configuration endpoint.
type ConfigResponse struct {
	View    controller.View `json:"view"`
	Notices []notice.Notice `json:"notices"`
}
