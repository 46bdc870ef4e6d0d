package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DataResponse envoltorio {data: ...} de las respuestas de la API local.
type DataResponse struct {
	Data any `json:"data"`
}
