package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// JoinRedirect sends /join/{code} links to the client app with the code in
// the query string. The code is not validated here; redemption happens when
// the client opens the game socket.
func JoinRedirect(clientRoot string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := mux.Vars(r)["code"]
		if code == "" {
			http.Error(w, "Invalid code", http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("%s/join?t=%s", clientRoot, code), http.StatusFound)
	}
}
