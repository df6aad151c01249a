package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	_ "pastas-console/cmd/api/dto"
	"pastas-console/cmd/api/services"
	"pastas-console/models"
	"pastas-console/pagination"
)

// ListEmpleadosHandler godoc
// @Summary      List employees
// @Description  Paginated employee roster, filtered by free text
// @Tags         empleados
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (5, 10, 20, 50)"
// @Param        search     query  string  false  "Free-text filter"
// @Produce      json
// @Success      200  {object}  dto.PaginationEmpleadoDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Router       /empleados [get]
func ListEmpleadosHandler(svc *services.EmpleadoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := pagination.ParseQuery(c.Request.URL.Query(), pagination.ParamSearch)
		if err != nil {
			respondError(c, err)
			return
		}
		page, err := svc.List(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetEmpleadoHandler godoc
// @Summary      Get employee
// @Tags         empleados
// @Param        id   path  int  true  "EmpleadoID"
// @Produce      json
// @Success      200  {object}  models.Empleado
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /empleados/{id} [get]
func GetEmpleadoHandler(svc *services.EmpleadoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}
		emp, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, emp)
	}
}

// CreateEmpleadoHandler godoc
// @Summary      Register employee
// @Tags         empleados
// @Accept       json
// @Param        body  body  models.EmpleadoCreate  true  "Employee"
// @Produce      json
// @Success      201  {object}  models.Empleado
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      422  {object}  dto.ErrorResponseDTO
// @Router       /empleados [post]
func CreateEmpleadoHandler(svc *services.EmpleadoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.EmpleadoCreate
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		emp, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, emp)
	}
}

// DeleteEmpleadoHandler godoc
// @Summary      Delete employee
// @Tags         empleados
// @Param        id   path  int  true  "EmpleadoID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /empleados/{id} [delete]
func DeleteEmpleadoHandler(svc *services.EmpleadoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Empleado eliminado"})
	}
}

// RegistrarRostroHandler godoc
// @Summary      Register employee face
// @Description  Uploads a face image (image/*) for recognition; matching happens in the backend
// @Tags         empleados
// @Accept       multipart/form-data
// @Param        id    path      int   true  "EmpleadoID"
// @Param        file  formData  file  true  "Face image"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /empleados/{id}/rostro [post]
func RegistrarRostroHandler(svc *services.EmpleadoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			respondError(c, err)
			return
		}
		file, closeFile, err := formUpload(c)
		defer closeFile()
		if err != nil {
			respondError(c, err)
			return
		}
		out, err := svc.RegistrarRostro(c.Request.Context(), id, file)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": out.Message})
	}
}
