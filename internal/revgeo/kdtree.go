package revgeo

import (
	"math"

	"patrio-api/internal/geo"
)

// 文档注释：二维 KD-Tree（经度/纬度交替分割）
// 约束：只支持单个最近点查询；剪枝用 1° 纬度 ≈ 111km 的平面近似。
type kdNode struct {
	c    Centroid
	axis int // 0: lon, 1: lat
	l, r *kdNode
}

func buildKD(cs []Centroid, depth int) *kdNode {
	if len(cs) == 0 {
		return nil
	}
	axis := depth % 2
	mid := len(cs) / 2
	selectNth(cs, mid, axis)
	return &kdNode{
		c:    cs[mid],
		axis: axis,
		l:    buildKD(cs[:mid], depth+1),
		r:    buildKD(cs[mid+1:], depth+1),
	}
}

// selectNth 原地选择第 n 小（quickselect）
func selectNth(a []Centroid, n, axis int) {
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := partition(a, lo, hi, (lo+hi)/2, axis)
		switch {
		case p == n:
			return
		case n < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
}

func partition(a []Centroid, lo, hi, pivot, axis int) int {
	pv := a[pivot]
	a[pivot], a[hi] = a[hi], a[pivot]
	i := lo
	for j := lo; j < hi; j++ {
		if coord(a[j], axis) < coord(pv, axis) {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}

func coord(c Centroid, axis int) float64 {
	if axis == 0 {
		return c.Lon
	}
	return c.Lat
}

// nearest 返回最近质心及距离（千米，未取整）
func (n *kdNode) nearest(lat, lon float64) (Centroid, float64) {
	best := Centroid{}
	bestD := math.MaxFloat64
	var walk func(*kdNode)
	walk = func(node *kdNode) {
		if node == nil {
			return
		}
		if d := geo.HaversineKm(lat, lon, node.c.Lat, node.c.Lon); d < bestD {
			bestD, best = d, node.c
		}
		key := lat
		if node.axis == 0 {
			key = lon
		}
		split := coord(node.c, node.axis)
		near, far := node.l, node.r
		if key > split {
			near, far = node.r, node.l
		}
		walk(near)
		limit := bestD / 111.0
		if node.axis == 0 {
			// 经度 1° 随纬度收缩
			limit /= math.Max(math.Cos(geo.DegToRad(lat)), 0.01)
		}
		if math.Abs(key-split) < limit {
			walk(far)
		}
	}
	walk(n)
	return best, bestD
}
