package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
// 입력 검증 실패 시 Fields 에 필드별 위반 규칙이 담긴다.
type ErrorResponseDTO struct {
	Error  string          `json:"error" example:"invalid page_size"`
	Fields []FieldErrorDTO `json:"fields,omitempty"`
}

type FieldErrorDTO struct {
	Field string `json:"field" example:"DNI"`
	Rule  string `json:"rule" example:"numeric"`
	Param string `json:"param,omitempty"`
}

// MessageResponseDTO는 단순 메시지 응답 형식을 통일하기 위한 DTO이다.
type MessageResponseDTO struct {
	Message string `json:"message" example:"Empleado eliminado"`
}

// HealthResponseDTO 는 /health 응답이다.
type HealthResponseDTO struct {
	Status  string `json:"status" example:"ok"`
	Backend string `json:"backend,omitempty" example:"down"`
	Error   string `json:"error,omitempty"`
}
