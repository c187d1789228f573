package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/techreport/internal/common"
)

const (
	msgSignedUp     = "Account created successfully!"
	msgLoggedIn     = "Login successful!"
	msgLoggedOut    = "Logged out successfully."
	msgSaved        = "Report saved successfully!"
	msgFieldsNeeded = "All fields are required."
	msgSignupFields = "Please provide a username and a valid email."
	msgWeakPassword = "Password must be at least 6 characters long."
	msgDuplicate    = "Username or email already exists."
	msgBadLogin     = "Invalid username or password."
	msgUnauthorized = "Unauthorized. Please log in."
	msgNoData       = "No data to export."
	msgBadBody      = "Invalid request body."
	msgSaveFailed   = "Error saving data."
	msgReadFailed   = "Database read error."
	msgInternal     = "Internal server error."
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message  string `json:"message"`
	UserName string `json:"username,omitempty"`
}

type authCheckResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserName      string `json:"username,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// apiError is an error already translated to what the client sees.
type apiError struct {
	Status  int
	Message string
}

// toAPIError maps service sentinels to a status and client message. The
// validation message differs per form, the fallback covers anything the
// client cannot act on.
func toAPIError(err error, validationMsg, fallback string) apiError {
	switch {
	case errors.Is(err, common.ErrorWeakPassword):
		return apiError{http.StatusBadRequest, msgWeakPassword}
	case errors.Is(err, common.ErrorDuplicateCredential):
		return apiError{http.StatusBadRequest, msgDuplicate}
	case errors.Is(err, common.ErrorValidation):
		return apiError{http.StatusBadRequest, validationMsg}
	case errors.Is(err, common.ErrorInvalidCredentials):
		return apiError{http.StatusUnauthorized, msgBadLogin}
	case errors.Is(err, common.ErrorUnauthorized):
		return apiError{http.StatusUnauthorized, msgUnauthorized}
	case errors.Is(err, common.ErrorNoData):
		return apiError{http.StatusNotFound, msgNoData}
	default:
		return apiError{http.StatusInternalServerError, fallback}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
