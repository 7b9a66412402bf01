package server

import "net/http"

// Router wires all endpoints onto a fresh mux.
func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", s.accounts)
	mux.HandleFunc("/accounts/", s.accountSubroutes)
	mux.HandleFunc("/health", s.health)
	return mux
}
