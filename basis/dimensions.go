package basis

// DimPCell is the dimension of the polynomials of total degree m in 3 variables
func DimPCell(m int) int {
	if m < 0 {
		return 0
	}
	return (m + 1) * (m + 2) * (m + 3) / 6
}

// DimPFace is the dimension of the polynomials of total degree m in 2 variables
func DimPFace(m int) int {
	if m < 0 {
		return 0
	}
	return (m + 1) * (m + 2) / 2
}

func DimPEdge(m int) int {
	if m < 0 {
		return 0
	}
	return m + 1
}
