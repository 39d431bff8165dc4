package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bloodfinder-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// validate is the shared validator instance for request payloads.
var validate = validator.New()

var errValidation = errors.New("validation failed")

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError emits the service's uniform failure envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// decodeAndValidate parses a JSON body into dst and runs its validation
// tags. Returns errValidation wrapped with the offending detail.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errValidation
	}
	if err := validate.Struct(dst); err != nil {
		return errValidation
	}
	return nil
}

// pathID parses an ObjectID URL parameter.
func pathID(r *http.Request, name string) (bson.ObjectID, error) {
	return bson.ObjectIDFromHex(chi.URLParam(r, name))
}

// authedUserID returns the caller's id from the verified token context.
func authedUserID(r *http.Request) (bson.ObjectID, bool) {
	hex := middleware.GetUserID(r.Context())
	if hex == "" {
		return bson.ObjectID{}, false
	}
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, false
	}
	return id, true
}
