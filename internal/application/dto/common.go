package dto

// ErrorResponse cuerpo uniforme de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pagination parámetros comunes de listado.
type Pagination struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}
