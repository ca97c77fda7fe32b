package render

import (
	"encoding/json"
	"net/http"

	"moneymarket/handler/codes"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Error write err with the status and code it maps to
func Error(w http.ResponseWriter, err error) {
	status, code := codes.Get(err)

	resp := errorResponse{
		Code: code,
		Msg:  err.Error(),
	}

	if status >= http.StatusInternalServerError {
		resp.Msg = http.StatusText(status)
		if ResponseErrorMessageAsHint {
			resp.Hint = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.WithError(err).Errorln("render error")
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, codes.InvalidArgument(err))
}

// NotFound not found error
func NotFound(w http.ResponseWriter) {
	Error(w, codes.ErrNotFound)
}
