package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pastas-console/cmd/api/clients/backendclient"
	"pastas-console/cmd/api/services"
	"pastas-console/models"
	"pastas-console/pagination"
)

// ListAccesosHandler godoc
// @Summary      List access records
// @Tags         accesos
// @Param        page          query  int     false  "Page number (1-based)"
// @Param        page_size     query  int     false  "Page size (5, 10, 20, 50)"
// @Param        search        query  string  false  "Free-text filter"
// @Param        tipo_acceso   query  string  false  "Ingreso | Egreso"
// @Param        area_id       query  string  false  "Area ID"
// @Param        empleado_id   query  int     false  "Employee ID"
// @Param        fecha_inicio  query  string  false  "From date (YYYY-MM-DD)"
// @Param        fecha_fin     query  string  false  "To date (YYYY-MM-DD)"
// @Produce      json
// @Success      200  {object}  dto.PaginationAccesoDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /accesos [get]
func ListAccesosHandler(svc *services.AccesoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := pagination.ParseQuery(c.Request.URL.Query(), pagination.ParamSearch)
		if err != nil {
			respondError(c, err)
			return
		}
		f := backendclient.AccesosFilter{
			TipoAcceso:  c.Query("tipo_acceso"),
			AreaID:      c.Query("area_id"),
			FechaInicio: c.Query("fecha_inicio"),
			FechaFin:    c.Query("fecha_fin"),
		}
		if raw := c.Query("empleado_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil || id <= 0 {
				badRequest(c, "invalid empleado_id")
				return
			}
			f.EmpleadoID = id
		}
		page, err := svc.List(c.Request.Context(), q, f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// ListAreasHandler godoc
// @Summary      List work areas
// @Tags         accesos
// @Produce      json
// @Success      200  {array}  models.AreaTrabajo
// @Router       /areas [get]
func ListAreasHandler(svc *services.AccesoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		areas, err := svc.Areas(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if areas == nil {
			areas = []models.AreaTrabajo{}
		}
		c.JSON(http.StatusOK, areas)
	}
}

// RegisterFacialAccessHandler godoc
// @Summary      Register access by face
// @Tags         accesos
// @Accept       multipart/form-data
// @Param        file           formData  file    true   "Face capture"
// @Param        tipo_acceso    formData  string  true   "Ingreso | Egreso"
// @Param        area_id        formData  string  true   "Area ID"
// @Param        dispositivo    formData  string  false  "Device name"
// @Param        observaciones  formData  string  false  "Notes"
// @Produce      json
// @Success      200  {object}  models.AccessResponse
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      422  {object}  dto.ErrorResponseDTO
// @Router       /accesos/facial [post]
func RegisterFacialAccessHandler(svc *services.AccesoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, closeFile, err := formUpload(c)
		defer closeFile()
		if err != nil {
			respondError(c, err)
			return
		}
		in := models.AccessRequest{
			TipoAcceso:    models.TipoAcceso(c.PostForm("tipo_acceso")),
			AreaID:        c.PostForm("area_id"),
			Dispositivo:   c.PostForm("dispositivo"),
			Observaciones: c.PostForm("observaciones"),
		}
		resp, err := svc.RegisterFacial(c.Request.Context(), in, file)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// RegisterPinAccessHandler godoc
// @Summary      Register access by PIN
// @Tags         accesos
// @Accept       json
// @Param        body  body  models.AccessRequest  true  "Access request with pin"
// @Produce      json
// @Success      200  {object}  models.AccessResponse
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /accesos/pin [post]
func RegisterPinAccessHandler(svc *services.AccesoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.AccessRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		resp, err := svc.RegisterPIN(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
