package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/KiloProjects/cfp"
)

func returnData(w http.ResponseWriter, retData any) {
	cfp.ReturnData(w, retData)
}

func errorData(w http.ResponseWriter, retData any, errCode int) {
	cfp.ErrorData(w, retData, errCode)
}

// parseRequest fills dst from a JSON body or, failing that, from the form values.
func parseRequest(r *http.Request, dst any) error {
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("invalid JSON body: %w", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	return decoder.Decode(dst, r.Form)
}
