package model

import "errors"

var (
	ErrFetch                = errors.New("FETCH_ERROR")
	ErrInvalidData          = errors.New("INVALID_DATA_FOUND")
	ErrMissingToken         = errors.New("MISSING_TOKEN")
	ErrInvalidConfiguration = errors.New("INVALID_CONFIGURATION")
	ErrTableShapeMismatch   = errors.New("TABLE_SHAPE_MISMATCH")
	ErrUploadSourceMissing  = errors.New("UPLOAD_SOURCE_MISSING")
	ErrCSVWrite             = errors.New("CSV_WRITE_ERROR")
	ErrCSVRead              = errors.New("CSV_READ_ERROR")
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAPIError(errReason error) APIError {
	switch {
	case errors.Is(errReason, ErrInvalidConfiguration):
		return APIError{
			Code:    ErrInvalidConfiguration.Error(),
			Message: "the request is invalid. check the owner parameter",
		}

	case errors.Is(errReason, ErrMissingToken):
		return APIError{
			Code:    ErrMissingToken.Error(),
			Message: "no github token configured on the server",
		}

	case errors.Is(errReason, ErrFetch), errors.Is(errReason, ErrInvalidData):
		code := ErrFetch.Error()
		if errors.Is(errReason, ErrInvalidData) {
			code = ErrInvalidData.Error()
		}

		return APIError{
			Code:    code,
			Message: "unable to fetch repositories from github. contact our support with the reason code for assistance",
		}
	}

	return APIError{
		Code:    "GENERIC_ERROR",
		Message: "internal server error. contact our support with the reason code for assistance",
	}
}
