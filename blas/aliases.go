package blas

// Usga is an alias for Dusga, retained for call sites that predate the
// "D" (double-precision) BLAS naming convention settling across this package.
func Usga(y []float64, incy int, x []float64, indx []int) {
	Dusga(y, incy, x, indx)
}

// Usgz is an alias for Dusgz.
func Usgz(y []float64, incy int, x []float64, indx []int) {
	Dusgz(y, incy, x, indx)
}

// Ussc is an alias for Dussc.
func Ussc(x []float64, y []float64, incy int, indx []int) {
	Dussc(x, y, incy, indx)
}

// Usdot is an alias for Dusdot.
func Usdot(x []float64, indx []int, y []float64, incy int) float64 {
	return Dusdot(x, indx, y, incy)
}
