package models

// AreaTrabajo represents a work area of the plant.
type AreaTrabajo struct {
	AreaID      string `json:"AreaID"`
	Nombre      string `json:"Nombre"`
	Descripcion string `json:"Descripcion"`
	Estado      Estado `json:"Estado"`
}

var areaNames = map[string]string{
	"AREA001": "Preparación",
	"AREA002": "Procesamiento",
	"AREA003": "Elaboración",
	"AREA004": "Envasado",
	"AREA005": "Etiquetado",
	"AREA006": "Control Calidad",
	"AREA007": "Administración",
	"AREA008": "Común",
	"AREA009": "Logística",
}

// AreaName 은 구역 코드를 표시용 이름으로 바꾼다. 모르는 코드는 그대로 돌려준다.
func AreaName(areaID string) string {
	if name, ok := areaNames[areaID]; ok {
		return name
	}
	return areaID
}
