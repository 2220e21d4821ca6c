package math

import "math"

func Radians(degrees float32) float32 {
	return degrees * math.Pi / 180
}

func Degrees(radians float32) float32 {
	return radians * 180 / math.Pi
}
