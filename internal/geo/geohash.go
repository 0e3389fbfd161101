package geo

// geohash base32 字母表
var base32 = []byte("0123456789bcdefghjkmnpqrstuvwxyz")

// 文档注释：geohash 编码
// 背景：用于反地理缓存键；精度 6 约 1.2km，精度 7 约 150m。
// 约束：非法坐标返回空串。
func Geohash(lat, lon float64, precision int) string {
	if precision <= 0 || !(Coordinate{Latitude: lat, Longitude: lon}).Valid() {
		return ""
	}
	latInt := [2]float64{-90, 90}
	lonInt := [2]float64{-180, 180}
	bits := [5]int{16, 8, 4, 2, 1}
	bit, ch := 0, 0
	even := true
	out := make([]byte, 0, precision)
	for len(out) < precision {
		if even {
			mid := (lonInt[0] + lonInt[1]) / 2
			if lon >= mid {
				ch |= bits[bit]
				lonInt[0] = mid
			} else {
				lonInt[1] = mid
			}
		} else {
			mid := (latInt[0] + latInt[1]) / 2
			if lat >= mid {
				ch |= bits[bit]
				latInt[0] = mid
			} else {
				latInt[1] = mid
			}
		}
		even = !even
		if bit < 4 {
			bit++
		} else {
			out = append(out, base32[ch])
			bit, ch = 0, 0
		}
	}
	return string(out)
}
