package handler

// APIResponse is the generic success envelope used for swagger documentation
type APIResponse[T any] struct {
	Success bool `json:"success" example:"true"`
	Data    T    `json:"data"`
}

// ErrorResponse is the error envelope used for swagger documentation
type ErrorResponse struct {
	Success bool `json:"success" example:"false"`
	Error   struct {
		Code    string `json:"code" example:"ERR_NOT_FOUND"`
		Message string `json:"message" example:"resource not found"`
	} `json:"error"`
}

// SuccessResponse is the success envelope without a payload
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}
