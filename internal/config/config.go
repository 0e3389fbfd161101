// 包 config：环境变量配置（.env 由 godotenv 预先加载），带类型化默认值
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config：服务运行参数
type Config struct {
	Addr      string
	APIBase   string
	UploadDir string

	RateLimitEnabled bool
	RateLimitQPS     int
	// TrustedProxies 逗号分隔的 IP/CIDR；为空时不信任任何转发头与 CDN 地理头
	TrustedProxies   string

	DBDriver string
	DBDSN    string

	RedisEnabled bool

	VisionAPIKey   string
	VisionEndpoint string

	MaxAnalysisTime     time.Duration
	ConfidenceThreshold int
	NearbyRadiusKm      float64
	HistoryMaxItems     int
	HistoryKey          string

	NominatimURL        string
	GeocodeCacheTTL     time.Duration
	ReverseGeoDataDir   string
	ReverseGeoCacheTTL  time.Duration
	ReverseGeoRadiusKm  float64
	GeoIPCityPath       string
	IP2RegionV4Path     string
	OverpassURL         string
	OverpassTimeout     time.Duration
	HistoricSitesRadius float64

	RandomSeed int64
}

// LoadDotEnv 依次加载 .env 与 data/env/.env；文件缺失忽略
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// 文档注释：读取配置
// 约束：解析失败的数值回退默认值；API_BASE 规范化为以 "/" 开头且无尾斜杠。
func Load() Config {
	c := Config{
		Addr:      getEnv("ADDR", ":8080"),
		APIBase:   normalizeBase(getEnv("API_BASE", "/api")),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", false),
		RateLimitQPS:     getEnvInt("RATE_LIMIT_QPS", 200),
		TrustedProxies:   os.Getenv("TRUSTED_PROXIES"),

		DBDriver: getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:    os.Getenv("DB_DSN"),

		RedisEnabled: getEnvBool("REDIS_ENABLED", false),

		VisionAPIKey:   os.Getenv("VISION_API_KEY"),
		VisionEndpoint: os.Getenv("VISION_ENDPOINT"),

		MaxAnalysisTime:     getEnvDuration("MAX_ANALYSIS_TIME", 30*time.Second),
		ConfidenceThreshold: getEnvInt("CONFIDENCE_THRESHOLD", 70),
		NearbyRadiusKm:      getEnvFloat("NEARBY_RADIUS_KM", 10),
		HistoryMaxItems:     getEnvInt("HISTORY_MAX_ITEMS", 50),
		HistoryKey:          getEnv("HISTORY_KEY", "patrio:analysis_history"),

		NominatimURL:        os.Getenv("NOMINATIM_URL"),
		GeocodeCacheTTL:     getEnvDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
		ReverseGeoDataDir:   os.Getenv("REVERSE_GEO_DATA_DIR"),
		ReverseGeoCacheTTL:  time.Duration(getEnvInt("REVERSE_GEO_CACHE_TTL_S", 3600)) * time.Second,
		ReverseGeoRadiusKm:  getEnvFloat("REVERSE_GEO_KDTREE_RADIUS_KM", 50),
		GeoIPCityPath:       os.Getenv("GEOIP_CITY_PATH"),
		IP2RegionV4Path:     os.Getenv("IP2REGION_V4_PATH"),
		OverpassURL:         os.Getenv("OVERPASS_URL"),
		OverpassTimeout:     getEnvDuration("OVERPASS_TIMEOUT", 10*time.Second),
		HistoricSitesRadius: getEnvFloat("HISTORIC_SITES_RADIUS_KM", 1),

		RandomSeed: int64(getEnvInt("RANDOM_SEED", 0)),
	}
	if c.RateLimitQPS <= 0 {
		c.RateLimitQPS = 200
	}
	return c
}

// OverpassEnabled OVERPASS_URL 为 "off" 时关闭 OSM 查询
func (c Config) OverpassEnabled() bool { return c.OverpassURL != "off" }

// NominatimEnabled NOMINATIM_URL 为 "off" 时只用离线快照
func (c Config) NominatimEnabled() bool { return c.NominatimURL != "off" }

func normalizeBase(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return s
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// getEnvDuration 支持 "30s" 形式，纯数字按毫秒
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return def
}
