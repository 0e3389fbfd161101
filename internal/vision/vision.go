// 包 vision：远端图像标注（Google Cloud Vision REST），产出标签与物体检测集合
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/option"
	visionapi "google.golang.org/api/vision/v1"

	"patrio-api/internal/logger"
	"patrio-api/internal/metrics"
)

const (
	maxLabels  = 20
	maxObjects = 15
)

var (
	ErrNotConfigured = errors.New("vision: api key not configured")
	ErrEmptyResponse = errors.New("vision: empty annotate response")
	ErrNoImage       = errors.New("vision: image has neither uri nor content")
)

// Image：远端地址（http(s):// 或 gs://）或原始字节，二选一；Content 优先
type Image struct {
	URI     string
	Content []byte
}

func (i Image) Empty() bool { return i.URI == "" && len(i.Content) == 0 }

// Detection：检测集合；Labels 来自 LABEL_DETECTION，Objects 来自 OBJECT_LOCALIZATION
type Detection struct {
	Labels  []string `json:"labels"`
	Objects []string `json:"objects"`
}

func (d Detection) Empty() bool { return len(d.Labels) == 0 && len(d.Objects) == 0 }

// Config 客户端配置
type Config struct {
	APIKey   string
	Endpoint string // 为空使用官方端点
	Timeout  time.Duration
}

// Client：Vision API 客户端
type Client struct {
	svc *visionapi.Service
}

// 文档注释：构造客户端
// 背景：传入自定义 http.Client 时 option.WithAPIKey 不生效，这里由 keyTransport 在每次请求附加 key 参数。
// 约束：未配置 key 返回 ErrNotConfigured，调用方据此进入离线模式。
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	hc := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &keyTransport{key: cfg.APIKey},
	}
	opts := []option.ClientOption{option.WithHTTPClient(hc)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := visionapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision: new service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// keyTransport 为请求追加 key 查询参数
type keyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *keyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r2 := r.Clone(r.Context())
	q := r2.URL.Query()
	q.Set("key", t.key)
	r2.URL.RawQuery = q.Encode()
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r2)
}

// 文档注释：标注单张图片
// 约束：传输失败、非 2xx、响应体为空或单图错误状态均返回 error；不重试。
func (c *Client) Detect(ctx context.Context, img Image) (Detection, error) {
	if img.Empty() {
		return Detection{}, ErrNoImage
	}
	req := &visionapi.BatchAnnotateImagesRequest{
		Requests: []*visionapi.AnnotateImageRequest{{
			Image: toAPIImage(img),
			Features: []*visionapi.Feature{
				{Type: "LABEL_DETECTION", MaxResults: maxLabels},
				{Type: "OBJECT_LOCALIZATION", MaxResults: maxObjects},
			},
		}},
	}
	metrics.VisionRequestsTotal.Inc()
	start := time.Now()
	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	metrics.VisionDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.VisionFailTotal.Inc()
		logger.L().Warn("vision_annotate_error", "err", err)
		return Detection{}, fmt.Errorf("vision: annotate: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		metrics.VisionFailTotal.Inc()
		return Detection{}, ErrEmptyResponse
	}
	r := resp.Responses[0]
	if r.Error != nil && r.Error.Code != 0 {
		metrics.VisionFailTotal.Inc()
		return Detection{}, fmt.Errorf("vision: image error %d: %s", r.Error.Code, r.Error.Message)
	}
	d := Detection{Labels: []string{}, Objects: []string{}}
	for _, l := range r.LabelAnnotations {
		if l != nil && strings.TrimSpace(l.Description) != "" {
			d.Labels = append(d.Labels, strings.ToLower(strings.TrimSpace(l.Description)))
		}
	}
	for _, o := range r.LocalizedObjectAnnotations {
		if o != nil && strings.TrimSpace(o.Name) != "" {
			d.Objects = append(d.Objects, strings.ToLower(strings.TrimSpace(o.Name)))
		}
	}
	logger.L().Debug("vision_annotate_ok", "labels", len(d.Labels), "objects", len(d.Objects))
	return d, nil
}

func toAPIImage(img Image) *visionapi.Image {
	if len(img.Content) > 0 {
		return &visionapi.Image{Content: base64.StdEncoding.EncodeToString(img.Content)}
	}
	if strings.HasPrefix(img.URI, "gs://") {
		return &visionapi.Image{Source: &visionapi.ImageSource{GcsImageUri: img.URI}}
	}
	return &visionapi.Image{Source: &visionapi.ImageSource{ImageUri: img.URI}}
}
