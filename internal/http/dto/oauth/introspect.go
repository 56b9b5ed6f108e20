package oauth

import "encoding/json"

// IntrospectResult es el resultado de una introspección (RFC 7662 §2.2).
// Un resultado inactivo se serializa exactamente como {"active":false}.
type IntrospectResult struct {
	Active   bool
	Scope    string
	ClientID string
	Exp      int64
	Iat      int64
}

// Inactive es el único resultado negativo; no distingue causas.
func Inactive() *IntrospectResult {
	return &IntrospectResult{Active: false}
}

type activeBody struct {
	Active   bool   `json:"active"`
	Scope    string `json:"scope"`
	ClientID string `json:"client_id"`
	Exp      int64  `json:"exp"`
	Iat      int64  `json:"iat"`
}

type inactiveBody struct {
	Active bool `json:"active"`
}

func (r IntrospectResult) MarshalJSON() ([]byte, error) {
	if !r.Active {
		return json.Marshal(inactiveBody{Active: false})
	}
	return json.Marshal(activeBody{
		Active:   true,
		Scope:    r.Scope,
		ClientID: r.ClientID,
		Exp:      r.Exp,
		Iat:      r.Iat,
	})
}
