package models

// Estado 는 직원/구역/교대의 상태 값이다.
type Estado string

const (
	EstadoActivo     Estado = "activo"
	EstadoInactivo   Estado = "inactivo"
	EstadoSuspendido Estado = "suspendido"
)

// Roles 는 직원 등록 폼에서 선택 가능한 역할 목록이다.
var Roles = []string{
	"Operario",
	"Supervisor",
	"Jefe_Turno",
	"Administracion",
	"Control_Calidad",
	"Mantenimiento",
}

// Empleado represents an employee as returned by the backend.
type Empleado struct {
	EmpleadoID      int    `json:"EmpleadoID"`
	Nombre          string `json:"Nombre"`
	Apellido        string `json:"Apellido"`
	DNI             string `json:"DNI"`
	FechaNacimiento string `json:"FechaNacimiento"`
	Email           string `json:"Email"`
	Rol             string `json:"Rol"`
	Estado          Estado `json:"Estado"`
	AreaID          string `json:"AreaID"`
	FechaRegistro   string `json:"FechaRegistro"`
}

func (e Empleado) FullName() string {
	if e.Apellido == "" {
		return e.Nombre
	}
	return e.Nombre + " " + e.Apellido
}

// EmpleadoCreate 는 POST /empleados/crear 요청 본문이다.
// PIN 은 선택 항목이며 4~6자리 숫자만 허용한다.
type EmpleadoCreate struct {
	Nombre          string `json:"Nombre" validate:"required,max=100"`
	Apellido        string `json:"Apellido" validate:"required,max=100"`
	DNI             string `json:"DNI" validate:"required,numeric,min=7,max=10"`
	FechaNacimiento string `json:"FechaNacimiento" validate:"required,datetime=2006-01-02"`
	Email           string `json:"Email" validate:"required,email"`
	Rol             string `json:"Rol" validate:"required,oneof=Operario Supervisor Jefe_Turno Administracion Control_Calidad Mantenimiento"`
	Estado          Estado `json:"Estado" validate:"required,oneof=activo inactivo suspendido"`
	AreaID          string `json:"AreaID" validate:"required"`
	PIN             string `json:"PIN,omitempty" validate:"omitempty,numeric,min=4,max=6"`
}
