// Package utils 提供模拟中常用的工具函数
//
// vec.go 提供平面（忽略高度）几何计算。
//
// # 坐标系统
//
// 商店使用右手坐标系：X/Z 为地面平面，Y 为高度。
// 所有"到达"、"距离"判定都只看 X/Z 平面，高度差不影响结果，
// 这样放在柜台上的物品（Y=1）与站在地上的顾客（Y=0）仍可按地面距离比较。
package utils

import "math"

// Vec3 三维坐标
type Vec3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Add 向量相加
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub 向量相减
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale 数乘
func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// PlanarLength 平面长度（忽略 Y）
func (v Vec3) PlanarLength() float64 {
	return math.Hypot(v.X, v.Z)
}

// PlanarDirection 平面单位方向（Y 恒为 0），零向量返回零向量
func (v Vec3) PlanarDirection() Vec3 {
	l := v.PlanarLength()
	if l < 1e-9 {
		return Vec3{}
	}
	return Vec3{X: v.X / l, Z: v.Z / l}
}

// PlanarDistance 两点的平面距离
func PlanarDistance(a, b Vec3) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

// Box 轴对齐包围盒
// 用于交互区域、柜台、障碍物等静态碰撞体
type Box struct {
	Min Vec3 `yaml:"min" json:"min"`
	Max Vec3 `yaml:"max" json:"max"`
}

// Center 包围盒中心
func (b Box) Center() Vec3 {
	return Vec3{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2, Z: (b.Min.Z + b.Max.Z) / 2}
}

// ClosestPoint 返回盒上（含内部）距 p 最近的点
// p 在盒内时返回 p 本身
func (b Box) ClosestPoint(p Vec3) Vec3 {
	return Vec3{
		X: clamp(p.X, b.Min.X, b.Max.X),
		Y: clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// Contains 判断点是否在盒内
//
// 与直接比较边界不同，这里用 ClosestPoint 的偏差判定，
// 和交互区域的原始判定方式一致（容差 1e-4 的平方距离）
func (b Box) Contains(p Vec3) bool {
	c := b.ClosestPoint(p)
	d := c.Sub(p)
	return d.X*d.X+d.Y*d.Y+d.Z*d.Z < 0.0001
}

// PushOut 将半径为 radius 的圆形移动体推出盒子（平面）
//
// 返回：
//   - 修正后的位置
//   - 是否发生了穿透修正
func (b Box) PushOut(p Vec3, radius, skin float64) (Vec3, bool) {
	cx := clamp(p.X, b.Min.X, b.Max.X)
	cz := clamp(p.Z, b.Min.Z, b.Max.Z)
	dx := p.X - cx
	dz := p.Z - cz
	dist := math.Hypot(dx, dz)

	if dist > 1e-9 {
		// 圆心在盒外
		if dist >= radius {
			return p, false
		}
		push := radius - dist + skin
		return Vec3{X: p.X + dx/dist*push, Y: p.Y, Z: p.Z + dz/dist*push}, true
	}

	// 圆心在盒内：沿最近的面推出
	left := p.X - b.Min.X
	right := b.Max.X - p.X
	back := p.Z - b.Min.Z
	front := b.Max.Z - p.Z
	out := p
	minPen := left
	out.X = b.Min.X - radius - skin
	if right < minPen {
		minPen = right
		out = p
		out.X = b.Max.X + radius + skin
	}
	if back < minPen {
		minPen = back
		out = p
		out.Z = b.Min.Z - radius - skin
	}
	if front < minPen {
		out = p
		out.Z = b.Max.Z + radius + skin
	}
	return out, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp 将值限制在 [lo, hi] 内
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}
