package ui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pastas-console/cmd/api/clients/backendclient"
	"pastas-console/cmd/internal/logger"
	"pastas-console/models"
	"pastas-console/pagination"
)

// EmployeeBackend 는 직원 화면이 사용하는 백엔드 연산이다.
type EmployeeBackend interface {
	ListEmpleados(ctx context.Context, q pagination.Query) (pagination.Page[models.Empleado], error)
	DeleteEmpleado(ctx context.Context, id int) error
	RegistrarRostro(ctx context.Context, id int, file backendclient.Upload) (backendclient.MessageResponse, error)
}

const emptyEmployees = "No hay empleados registrados."

type employeeMode int

const (
	modeBrowse employeeMode = iota
	modeConfirmDelete
	modeFacePath
)

type deletedMsg struct {
	id  int
	err error
}

type faceRegisteredMsg struct {
	id      int
	message string
	err     error
}

type employeesView struct {
	*listView[models.Empleado]
	backend EmployeeBackend

	mode    employeeMode
	pending models.Empleado
	path    textinput.Model
	status  string
	failed  bool
}

func newEmployeesView(backend EmployeeBackend, ctrl *pagination.Controller[models.Empleado], timeout time.Duration) *employeesView {
	columns := []column[models.Empleado]{
		{"ID", 5, func(e models.Empleado) string { return strconv.Itoa(e.EmpleadoID) }},
		{"Nombre", 24, models.Empleado.FullName},
		{"DNI", 10, func(e models.Empleado) string { return e.DNI }},
		{"Rol", 16, func(e models.Empleado) string { return e.Rol }},
		{"Área", 16, func(e models.Empleado) string { return models.AreaName(e.AreaID) }},
		{"Estado", 10, func(e models.Empleado) string { return string(e.Estado) }},
	}
	path := textinput.New()
	path.Placeholder = "ruta de la imagen (jpg, png)"
	path.Prompt = "imagen: "
	return &employeesView{
		listView: newListView(ctrl, columns, emptyEmployees, timeout),
		backend:  backend,
		path:     path,
	}
}

func (v *employeesView) capturing() bool {
	return v.listView.capturing() || v.mode != modeBrowse
}

func (v *employeesView) setStatus(msg string, failed bool) {
	v.status = msg
	v.failed = failed
}

func (v *employeesView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch v.mode {
	case modeConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			v.mode = modeBrowse
			v.setStatus("Eliminando...", false)
			return v.deleteCmd(v.pending.EmpleadoID)
		case "n", "N", "esc":
			v.mode = modeBrowse
			v.setStatus("", false)
		}
		return nil

	case modeFacePath:
		switch msg.String() {
		case "enter":
			p := strings.TrimSpace(v.path.Value())
			v.mode = modeBrowse
			v.path.Blur()
			if p == "" {
				v.setStatus("", false)
				return nil
			}
			v.setStatus("Registrando rostro...", false)
			return v.registerFaceCmd(v.pending.EmpleadoID, p)
		case "esc":
			v.mode = modeBrowse
			v.path.Blur()
			v.setStatus("", false)
			return nil
		}
		var cmd tea.Cmd
		v.path, cmd = v.path.Update(msg)
		return cmd
	}

	if cmd, ok := v.listView.handleKey(msg); ok {
		return cmd
	}

	switch msg.String() {
	case "d":
		if emp, ok := v.selected(); ok {
			v.pending = emp
			v.mode = modeConfirmDelete
			v.setStatus(fmt.Sprintf("¿Eliminar a %s? (y/n)", emp.FullName()), false)
		}
	case "f":
		if emp, ok := v.selected(); ok {
			v.pending = emp
			v.mode = modeFacePath
			v.path.SetValue("")
			v.path.Focus()
			v.setStatus(fmt.Sprintf("Registrar rostro de %s (enter para enviar, esc para cancelar)", emp.FullName()), false)
		}
	}
	return nil
}

func (v *employeesView) deleteCmd(id int) tea.Cmd {
	backend, timeout := v.backend, v.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deletedMsg{id: id, err: backend.DeleteEmpleado(ctx, id)}
	}
}

func (v *employeesView) registerFaceCmd(id int, path string) tea.Cmd {
	backend, timeout := v.backend, v.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := uploadFace(ctx, backend, id, path)
		return faceRegisteredMsg{id: id, message: resp.Message, err: err}
	}
}

// uploadFace 는 path 의 이미지를 열어 전송한다. 파일은 어떤 경로로 끝나든 닫힌다.
func uploadFace(ctx context.Context, backend EmployeeBackend, id int, path string) (backendclient.MessageResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return backendclient.MessageResponse{}, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return backendclient.MessageResponse{}, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return backendclient.MessageResponse{}, err
	}

	up := backendclient.Upload{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(head[:n]),
		Body:        f,
	}
	if err := up.Validate(); err != nil {
		return backendclient.MessageResponse{}, err
	}
	return backend.RegistrarRostro(ctx, id, up)
}

// handleResult 는 변경 작업 결과를 반영한다. 성공한 삭제는 현재 조건으로 다시 조회한다.
func (v *employeesView) handleResult(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case deletedMsg:
		if msg.err != nil {
			logger.ErrorWithFields("empleado delete failed", logger.Fields{"empleado_id": msg.id, "error": msg.err.Error()})
			v.setStatus("No se pudo eliminar: "+msg.err.Error(), true)
			return nil
		}
		v.setStatus("Empleado eliminado.", false)
		return v.load()
	case faceRegisteredMsg:
		if msg.err != nil {
			logger.ErrorWithFields("rostro upload failed", logger.Fields{"empleado_id": msg.id, "error": msg.err.Error()})
			v.setStatus("No se pudo registrar el rostro: "+msg.err.Error(), true)
			return nil
		}
		text := msg.message
		if text == "" {
			text = "Rostro registrado."
		}
		v.setStatus(text, false)
	}
	return nil
}

func (v *employeesView) View() string {
	var b strings.Builder
	b.WriteString(v.listView.View())
	if v.mode == modeFacePath {
		b.WriteString("\n")
		b.WriteString(v.path.View())
	}
	if v.status != "" {
		b.WriteString("\n")
		if v.failed {
			b.WriteString(errorStyle.Render(v.status))
		} else {
			b.WriteString(warnStyle.Render(v.status))
		}
	}
	return b.String()
}
