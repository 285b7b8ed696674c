// Package social holds the wire types for the federated-login endpoints.
package social

type StartResponse struct {
	RedirectURL string `json:"redirect_url"`
	State       string `json:"state"`
}

type CallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}
