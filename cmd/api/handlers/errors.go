package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pastas-console/cmd/api/clients/backendclient"
	"pastas-console/cmd/api/dto"
	"pastas-console/cmd/api/services"
	"pastas-console/pagination"
)

// statusFor 는 서비스/백엔드 에러를 HTTP 상태 코드로 변환한다.
//
// - 입력 검증 실패: 422, 잘못된 파라미터: 400
// - 백엔드 404: 404, 그 밖의 백엔드 4xx: 그대로 전달
// - 백엔드 5xx, 전송 실패, 응답 형식 오류: 502
func statusFor(err error) int {
	var verr *services.ValidationError
	var serr *backendclient.StatusError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pagination.ErrInvalidPage),
		errors.Is(err, pagination.ErrInvalidPageSize),
		errors.Is(err, services.ErrInvalidID),
		errors.Is(err, backendclient.ErrPINRequired),
		errors.Is(err, backendclient.ErrInvalidImage),
		errors.Is(err, backendclient.ErrMissingFile):
		return http.StatusBadRequest
	case errors.Is(err, backendclient.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAuditUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &serr) && serr.Status >= 400 && serr.Status < 500:
		return serr.Status
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	resp := dto.ErrorResponseDTO{Error: err.Error()}
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		for _, f := range verr.Fields {
			resp.Fields = append(resp.Fields, dto.FieldErrorDTO{Field: f.Field, Rule: f.Rule, Param: f.Param})
		}
	}
	c.AbortWithStatusJSON(statusFor(err), resp)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: msg})
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, services.ErrInvalidID
	}
	return id, nil
}

// formUpload 는 multipart 의 file 필드를 연다. 반환된 close 는 모든 경로에서 호출해야 한다.
func formUpload(c *gin.Context) (backendclient.Upload, func(), error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return backendclient.Upload{}, func() {}, backendclient.ErrMissingFile
	}
	f, err := fh.Open()
	if err != nil {
		return backendclient.Upload{}, func() {}, err
	}
	up := backendclient.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}
	return up, func() { _ = f.Close() }, nil
}
