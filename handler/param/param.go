package param

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"moneymarket/handler/codes"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/schema"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}()

// Binding decodes the url query of GET requests and the json body of the others
// into v, then validates v
func Binding(r *http.Request, v interface{}) error {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if err := decoder.Decode(v, r.URL.Query()); err != nil {
			return codes.InvalidArgument(err)
		}
	default:
		if r.Body == nil {
			break
		}

		if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return codes.InvalidArgument(err)
		}
	}

	if _, err := govalidator.ValidateStruct(v); err != nil {
		return codes.InvalidArgument(err)
	}

	return nil
}
