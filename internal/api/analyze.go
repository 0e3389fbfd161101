package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"patrio-api/internal/analysis"
	"patrio-api/internal/geo"
	"patrio-api/internal/history"
	"patrio-api/internal/ipgeo"
	"patrio-api/internal/locate"
	"patrio-api/internal/logger"
	"patrio-api/internal/middleware"
	"patrio-api/internal/upload"
	"patrio-api/internal/vision"
)

// analyzeRequest JSON 请求体
type analyzeRequest struct {
	ImageURI    string   `json:"imageUri"`
	ImageBase64 string   `json:"imageBase64"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

var errNoImage = errors.New("nenhuma imagem enviada")

// 文档注释：解析分析请求
// 背景：移动端拍照后直接 multipart 上传；Web 端可传图片地址或 base64。
// 约束：坐标须成对出现，任一无法解析返回 400；multipart 图片按上传目录落盘后作为 ImageRef。
func (s *server) parseAnalyze(w http.ResponseWriter, r *http.Request) (analysis.Request, error) {
	var req analysis.Request
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		if err := parseForm(w, r); err != nil {
			return req, err
		}
		f, fh, err := r.FormFile("image")
		if err != nil {
			return req, errNoImage
		}
		defer f.Close()
		b, err := io.ReadAll(io.LimitReader(f, upload.MaxSize+1))
		if err != nil {
			return req, err
		}
		if len(b) > upload.MaxSize {
			return req, upload.ErrTooLarge
		}
		req.Image = vision.Image{Content: b}
		req.ImageRef = fh.Filename
		if s.Uploads != nil {
			if p, err := s.Uploads.Save(bytes.NewReader(b), fh.Filename); err == nil {
				req.ImageRef = p
			} else {
				logger.L().Warn("analyze_upload_error", "err", err)
			}
		}
		pos, err := formPosition(r.PostFormValue("latitude"), r.PostFormValue("longitude"))
		if err != nil {
			return req, err
		}
		req.Position = pos
		return req, nil
	}

	var body analyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 2*upload.MaxSize)).Decode(&body); err != nil {
		return req, paramError{"body"}
	}
	switch {
	case body.ImageBase64 != "":
		raw := body.ImageBase64
		if i := strings.Index(raw, ";base64,"); i >= 0 {
			raw = raw[i+len(";base64,"):]
		}
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return req, paramError{"imageBase64"}
		}
		req.Image = vision.Image{Content: b}
		req.ImageRef = body.ImageURI
	case body.ImageURI != "":
		req.Image = vision.Image{URI: body.ImageURI}
		req.ImageRef = body.ImageURI
	default:
		return req, errNoImage
	}
	if (body.Latitude == nil) != (body.Longitude == nil) {
		return req, paramError{"latitude/longitude"}
	}
	if body.Latitude != nil {
		req.Position = &geo.Coordinate{Latitude: *body.Latitude, Longitude: *body.Longitude}
	}
	return req, nil
}

func formPosition(latS, lonS string) (*geo.Coordinate, error) {
	latS, lonS = strings.TrimSpace(latS), strings.TrimSpace(lonS)
	if latS == "" && lonS == "" {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(latS, 64)
	if err != nil {
		return nil, paramError{"latitude"}
	}
	lon, err := strconv.ParseFloat(lonS, 64)
	if err != nil {
		return nil, paramError{"longitude"}
	}
	return &geo.Coordinate{Latitude: lat, Longitude: lon}, nil
}

// edgePosition 无坐标时采用边缘节点给出的近似坐标
func edgePosition(ctx context.Context) *geo.Coordinate {
	if a, ok := middleware.EdgeGeoFrom(ctx); ok && a.HasCoordinates {
		return &geo.Coordinate{Latitude: a.Latitude, Longitude: a.Longitude}
	}
	return nil
}

func (s *server) analyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseAnalyze(w, r)
	if err != nil {
		badRequest(w, err)
		return
	}
	if req.Position == nil {
		req.Position = edgePosition(r.Context())
	}
	req.ClientIP = logger.ClientIP(r)

	ctx, cancel := context.WithTimeout(r.Context(), s.AnalysisTimeout)
	defer cancel()
	writeJSON(w, http.StatusOK, s.Analysis.Analyze(ctx, req))
}

func (s *server) history(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeJSON(w, http.StatusOK, []history.Entry{})
		return
	}
	entries, err := s.History.List(r.Context())
	if err != nil {
		logger.L().Warn("history_list_error", "err", err)
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *server) clearHistory(w http.ResponseWriter, r *http.Request) {
	if s.History != nil {
		if err := s.History.Clear(r.Context()); err != nil {
			logger.L().Error("history_clear_error", "err", err)
			writeError(w, http.StatusInternalServerError, "Erro ao limpar o histórico")
			return
		}
	}
	writeMessage(w, "Histórico limpo com sucesso")
}

// locationResponse 位置查询结果
type locationResponse struct {
	Location         locate.Result `json:"location"`
	InHistoricalArea bool          `json:"in_historical_area"`
	Zones            []geo.Zone    `json:"zones"`
	IPArea           *ipgeo.Area   `json:"ip_area,omitempty"`
}

func (s *server) location(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var pos *geo.Coordinate
	if q.Get("lat") != "" || q.Get("lon") != "" {
		lat, lon, err := floatPair(r, "lat", "lon")
		if err != nil {
			badRequest(w, err)
			return
		}
		pos = &geo.Coordinate{Latitude: lat, Longitude: lon}
		if !pos.Valid() {
			badRequest(w, paramError{"lat/lon"})
			return
		}
	} else {
		pos = edgePosition(r.Context())
	}
	ip := logger.ClientIP(r)
	res := locationResponse{Location: s.Resolver.Resolve(r.Context(), pos, ip)}
	c := geo.Coordinate{Latitude: res.Location.Latitude, Longitude: res.Location.Longitude}
	res.Zones = geo.ZonesContaining(geo.DefaultZones, c)
	res.InHistoricalArea = len(res.Zones) > 0
	if pos == nil {
		if a, ok := s.Resolver.IPArea(ip); ok {
			res.IPArea = &a
		}
	}
	writeJSON(w, http.StatusOK, res)
}
