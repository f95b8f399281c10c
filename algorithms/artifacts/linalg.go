package artifacts

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// eigenRatioFloor is the smallest eigenvalue, relative to the largest, that
// whitening accepts before declaring the covariance singular.
const eigenRatioFloor = 1e-10

// absoluteEigenFloor rejects covariances of (near) silent signals.
const absoluteEigenFloor = 1e-12

// whitener maps centered channels to unit-variance decorrelated coordinates:
// z = K x with K = D^(-1/2) E^T from the eigendecomposition cov = E D E^T.
type whitener struct {
	k *mat.Dense
}

// newWhitener decomposes the channel covariance of x (rows are channels).
func newWhitener(x *mat.Dense) (*whitener, error) {
	rows, cols := x.Dims()

	var cov mat.SymDense
	cov.SymOuterK(1/float64(cols), x)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return nil, fmt.Errorf("%w: eigendecomposition did not converge", ErrSingularDecomposition)
	}

	values := eig.Values(nil) // ascending
	maxVal := values[len(values)-1]
	if maxVal < absoluteEigenFloor || values[0] < eigenRatioFloor*maxVal {
		return nil, fmt.Errorf("%w: covariance eigenvalues span [%g, %g]", ErrSingularDecomposition, values[0], maxVal)
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	k := mat.NewDense(rows, rows, nil)
	for i := range rows {
		scale := 1 / math.Sqrt(values[i])
		for j := range rows {
			k.Set(i, j, vectors.At(j, i)*scale)
		}
	}
	return &whitener{k: k}, nil
}

// apply returns K x
func (w *whitener) apply(x *mat.Dense) *mat.Dense {
	var z mat.Dense
	z.Mul(w.k, x)
	return &z
}

// pseudoInverse computes the Moore-Penrose inverse of m through its SVD,
// zeroing singular values below the usual max(r,c)*eps*sigma_max cutoff.
func pseudoInverse(m mat.Matrix) (*mat.Dense, error) {
	rows, cols := m.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDFull); !ok {
		return nil, fmt.Errorf("%w: SVD did not converge", ErrSingularDecomposition)
	}

	sigma := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	cutoff := 0.0
	if len(sigma) > 0 {
		cutoff = float64(max(rows, cols)) * sigma[0] * 2.220446049250313e-16
	}

	// pinv = V * diag(1/sigma) * U^T
	pinv := mat.NewDense(cols, rows, nil)
	for i := range cols {
		for j := range rows {
			sum := 0.0
			for k, s := range sigma {
				if s <= cutoff {
					continue
				}
				sum += v.At(i, k) * u.At(j, k) / s
			}
			pinv.Set(i, j, sum)
		}
	}
	return pinv, nil
}
