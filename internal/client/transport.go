package client

import "net/http"

// bearerTransport добавляет заголовок Authorization с токеном текущей сессии.
// Анонимная сессия отправляет запрос без заголовка.
type bearerTransport struct {
	session *Session
	base    http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if token := t.session.Token(); token != "" {
		clone := req.Clone(req.Context())
		clone.Header.Set("Authorization", "Bearer "+token)
		return base.RoundTrip(clone)
	}
	return base.RoundTrip(req)
}
