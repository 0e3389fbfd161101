package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"patrio-api/internal/logger"
	"patrio-api/internal/metrics"
	"patrio-api/internal/store"
	"patrio-api/internal/upload"
)

const maxFormMemory = 2 << 20

// createResponse 登记成功的回显
type createResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	CEP         string  `json:"cep"`
	ImagePath   *string `json:"image_path"`
	Date        *string `json:"date"`
}

// parseForm 兼容 multipart 与 urlencoded
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxSize+maxFormMemory)
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// saveImage 读取 image 字段并落盘；未上传返回 nil
func (s *server) saveImage(r *http.Request) (*string, error) {
	if r.MultipartForm == nil || s.Uploads == nil {
		return nil, nil
	}
	f, fh, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := s.Uploads.Save(f, fh.Filename)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// discardImage 请求失败时删除已落盘的图片
func (s *server) discardImage(img *string) {
	if img == nil || s.Uploads == nil {
		return
	}
	if err := s.Uploads.Remove(*img); err != nil {
		logger.L().Warn("casarao_upload_cleanup_error", "file", *img, "err", err)
	}
}

func formValue(r *http.Request, key string) *string {
	v, ok := r.PostForm[key]
	if !ok || len(v) == 0 {
		return nil
	}
	x := v[0]
	return &x
}

func (s *server) createCasarao(w http.ResponseWriter, r *http.Request) {
	l := logger.L()
	if err := parseForm(w, r); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	img, err := s.saveImage(r)
	if err != nil {
		l.Warn("casarao_upload_error", "err", err)
		metrics.CasaroesOpsTotal.WithLabelValues("create", "error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	c := &store.Casarao{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Location:    r.PostFormValue("location"),
		CEP:         formValue(r, "cep"),
		ImagePath:   img,
	}
	if d := strings.TrimSpace(r.PostFormValue("date")); d != "" {
		c.Date = &d
	}
	if err := s.Store.Create(r.Context(), c); err != nil {
		l.Error("casarao_create_error", "err", err)
		s.discardImage(img)
		metrics.CasaroesOpsTotal.WithLabelValues("create", "error").Inc()
		writeError(w, http.StatusInternalServerError, "Erro ao cadastrar o casarão")
		return
	}
	metrics.CasaroesOpsTotal.WithLabelValues("create", "ok").Inc()
	writeJSON(w, http.StatusCreated, createResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Location:    c.Location,
		CEP:         r.PostFormValue("cep"),
		ImagePath:   c.ImagePath,
		Date:        c.Date,
	})
}

func (s *server) listCasaroes(w http.ResponseWriter, r *http.Request) {
	list, err := s.Store.List(r.Context())
	if err != nil {
		logger.L().Error("casarao_list_error", "err", err)
		metrics.CasaroesOpsTotal.WithLabelValues("list", "error").Inc()
		writeError(w, http.StatusInternalServerError, "Erro ao consultar casarões")
		return
	}
	metrics.CasaroesOpsTotal.WithLabelValues("list", "ok").Inc()
	writeJSON(w, http.StatusOK, list)
}

func (s *server) getCasarao(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Casarão não encontrado")
		return
	}
	c, err := s.Store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Casarão não encontrado")
	case err != nil:
		logger.L().Error("casarao_get_error", "id", id, "err", err)
		metrics.CasaroesOpsTotal.WithLabelValues("get", "error").Inc()
		writeError(w, http.StatusInternalServerError, "Erro ao consultar casarões")
	default:
		metrics.CasaroesOpsTotal.WithLabelValues("get", "ok").Inc()
		writeJSON(w, http.StatusOK, c)
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *server) updateCasarao(w http.ResponseWriter, r *http.Request) {
	l := logger.L()
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Casarão não encontrado")
		return
	}
	if err := parseForm(w, r); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	img, err := s.saveImage(r)
	if err != nil {
		l.Warn("casarao_upload_error", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	p := store.Patch{
		Name:        formValue(r, "name"),
		Description: formValue(r, "description"),
		Location:    formValue(r, "location"),
		CEP:         formValue(r, "cep"),
		Date:        formValue(r, "date"),
		ImagePath:   img,
	}
	err = s.Store.Update(r.Context(), id, p)
	if err != nil {
		s.discardImage(img)
	}
	switch {
	case errors.Is(err, store.ErrNoFields):
		writeError(w, http.StatusBadRequest, "Nenhum campo para atualizar")
	case errors.Is(err, store.ErrNotFound):
		metrics.CasaroesOpsTotal.WithLabelValues("update", "not_found").Inc()
		writeError(w, http.StatusNotFound, "Casarão não encontrado")
	case err != nil:
		l.Error("casarao_update_error", "id", id, "err", err)
		metrics.CasaroesOpsTotal.WithLabelValues("update", "error").Inc()
		writeError(w, http.StatusInternalServerError, "Erro ao atualizar o casarão")
	default:
		metrics.CasaroesOpsTotal.WithLabelValues("update", "ok").Inc()
		writeMessage(w, "Casarão atualizado com sucesso")
	}
}

func (s *server) deleteCasarao(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Casarão não encontrado")
		return
	}
	err := s.Store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		metrics.CasaroesOpsTotal.WithLabelValues("delete", "not_found").Inc()
		writeError(w, http.StatusNotFound, "Casarão não encontrado")
	case err != nil:
		logger.L().Error("casarao_delete_error", "id", id, "err", err)
		metrics.CasaroesOpsTotal.WithLabelValues("delete", "error").Inc()
		writeError(w, http.StatusInternalServerError, "Erro ao excluir o casarão")
	default:
		metrics.CasaroesOpsTotal.WithLabelValues("delete", "ok").Inc()
		writeMessage(w, "Casarão excluído com sucesso")
	}
}
