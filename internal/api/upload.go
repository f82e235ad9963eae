package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"PhoneStore/internal/phone"
	"PhoneStore/internal/phonecsv"
	"PhoneStore/pkg/kit"
)

const (
	uploadField      = "csvfile"
	defaultMaxUpload = 10 << 20
	exportFilename   = "phones.csv"
)

// upload replaces the stored set with the rows of an uploaded CSV file. A
// file that does not parse in full is rejected and the stored set is kept.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	uploadID := uuid.NewString()
	log := s.Log.With(zap.String("upload_id", uploadID))

	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			kit.WriteError(w, r, http.StatusRequestEntityTooLarge, "File too large.", map[string]any{"limit": tooLarge.Limit})
			return
		}
		kit.WriteError(w, r, http.StatusBadRequest, "No file uploaded.", map[string]any{"cause": err.Error()})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile(uploadField)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "No file uploaded.", nil)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(hdr.Filename), ".csv") {
		kit.WriteError(w, r, http.StatusBadRequest, "Only CSV files are allowed.", map[string]any{"filename": hdr.Filename})
		return
	}

	rows, err := phonecsv.Read(file)
	if err != nil {
		log.Warn("rejecting upload", zap.String("filename", hdr.Filename), zap.Error(err))
		kit.WriteError(w, r, http.StatusBadRequest, "Invalid CSV file.", map[string]any{"cause": err.Error()})
		return
	}

	fields := make([]phone.Fields, 0, len(rows))
	for _, rec := range phone.FromRows(rows) {
		fields = append(fields, rec.Fields)
	}

	recs, err := s.Store.Replace(r.Context(), fields)
	if err != nil {
		s.writeStoreError(w, r, "Failed to upload file.", err)
		return
	}

	log.Info("phone data replaced",
		zap.String("filename", hdr.Filename),
		zap.Int64("bytes", hdr.Size),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(recs)),
	)
	kit.WriteJSON(w, http.StatusOK, kit.Envelope{
		Success: true,
		Message: "File uploaded successfully",
		Data:    recs,
		Count:   ptrInt(len(recs)),
	})
}

// export streams the stored set in the on-disk format. It refuses when the
// set could not be read in full rather than hand out a truncated file.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	res := s.Store.LoadAll(r.Context())
	if res.Failed() {
		kit.WriteError(w, r, http.StatusInternalServerError, "Failed to export phones", map[string]any{"reason": "phone data could not be read"})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	if err := phonecsv.Write(w, phone.ToRows(res.Records)); err != nil {
		s.Log.Error("export failed", zap.Error(err))
	}
}

func ptrInt(n int) *int { return &n }
