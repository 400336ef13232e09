// Package ecc implements the error-correcting codes shared across
// protocols: a single Reed-Solomon/BCH engine over GF(2^8) driven by
// Berlekamp-Massey and Forney correction, Hamming(8,4), and the CRC/checksum
// variants used to validate individual subframes.
package ecc

// RSDecoder is a Reed-Solomon or (shortened) BCH decoder over GF(2^8). One
// engine serves both: BCH mode is signaled by FirstRoot == -1, in which case
// error correction flips a single fixed bit per error rather than computing
// a Forney magnitude.
type RSDecoder struct {
	N, K      int
	FirstRoot int

	alpha, logtable []byte
	zeroes          []byte
	gaproots        []byte
}

// NewRS builds a Reed-Solomon (n,k) decoder over GF(2^8) with the given
// generator polynomial, evaluating roots α^((i+firstRoot)*rootSkip mod n)
// for i in [0, n-k).
func NewRS(n, k int, genPoly uint, firstRoot byte, rootSkip int) *RSDecoder {
	d := &RSDecoder{N: n, K: k, FirstRoot: int(firstRoot)}
	d.initTables(n, genPoly)

	t := n - k
	d.zeroes = make([]byte, t)
	for i := 0; i < t; i++ {
		exp := (i + int(firstRoot)) * rootSkip % n
		d.zeroes[i] = d.alpha[exp]
	}

	d.gaproots = make([]byte, n+1)
	for i := 0; i <= n; i++ {
		d.gaproots[d.gfpow(byte(i), rootSkip)] = byte(i)
	}

	return d
}

// NewBCH builds a shortened BCH decoder over GF(n+1) with explicit generator
// roots (rather than a first-root/skip formula) and a fixed single-bit-flip
// correction in place of a Forney magnitude.
func NewBCH(n, k int, genPoly uint, roots []byte) *RSDecoder {
	d := &RSDecoder{N: n, K: k, FirstRoot: -1}
	d.initTables(n, genPoly)

	d.zeroes = make([]byte, len(roots))
	copy(d.zeroes, roots)

	d.gaproots = make([]byte, n+1)
	for i := 0; i <= n; i++ {
		d.gaproots[i] = byte(i)
	}

	return d
}

func (d *RSDecoder) initTables(n int, genPoly uint) {
	d.alpha = make([]byte, n+1)
	d.logtable = make([]byte, n+1)

	d.alpha[0] = 1
	d.logtable[1] = 0

	for i := 1; i <= n; i++ {
		tmp := uint(d.alpha[i-1]) << 1
		if tmp >= uint(n+1) {
			tmp ^= genPoly
		}
		d.alpha[i] = byte(tmp)
		d.logtable[tmp] = byte(i)
	}
}

// FixBlock attempts to correct errors in data (exactly d.N bytes) in place.
// It returns the number of symbol errors corrected, or -1 if the block
// could not be corrected (more errors than the code can handle, or a
// malformed error locator).
func (d *RSDecoder) FixBlock(data []byte) int {
	n, k := d.N, d.K
	t := n - k
	t2 := t / 2

	syndrome := make([]byte, t)
	hasErrors := byte(0)
	for i := 0; i < t; i++ {
		syndrome[i] = d.polyEval(data, d.zeroes[i], n)
		hasErrors |= syndrome[i]
	}
	if hasErrors == 0 {
		return 0
	}

	lambda := make([]byte, t2+1)
	prevLambda := make([]byte, t2+1)
	tmp := make([]byte, t2+1)
	lambda[0] = 1
	prevLambda[0] = 1
	lambdaDeg := 0
	prevDelta := byte(1)
	m := 1

	for n2 := 0; n2 < t; n2++ {
		delta := syndrome[n2]
		for i := 1; i <= lambdaDeg; i++ {
			delta ^= d.gfmul(syndrome[n2-i], lambda[i])
		}

		switch {
		case delta == 0:
			m++
		case 2*lambdaDeg <= n2:
			copy(tmp, lambda)
			coeff := d.gfdiv(delta, prevDelta)
			for i := m; i <= t2; i++ {
				lambda[i] ^= d.gfmul(coeff, prevLambda[i-m])
			}
			copy(prevLambda, tmp)

			prevDelta = delta
			lambdaDeg = n2 + 1 - lambdaDeg
			m = 1
		default:
			coeff := d.gfdiv(delta, prevDelta)
			for i := m; i <= t2; i++ {
				lambda[i] ^= d.gfmul(coeff, prevLambda[i-m])
			}
			m++
		}
	}

	// A locator of degree above t/2 means more errors than the code corrects.
	if lambdaDeg > t2 {
		return -1
	}

	lambdaRoot := make([]byte, t2)
	errorPos := make([]byte, t2)
	errorCount := 0
	for i := 1; i <= n && errorCount < lambdaDeg; i++ {
		if d.polyEval(lambda, byte(i), lambdaDeg+1) == 0 {
			lambdaRoot[errorCount] = byte(i)
			errorPos[errorCount] = d.logtable[d.gaproots[d.gfdiv(1, byte(i))]]
			errorCount++
		}
	}

	if errorCount != lambdaDeg {
		return -1
	}

	omega := make([]byte, t)
	d.polyMul(omega, syndrome, lambda, t, t2+1)
	lambdaPrime := make([]byte, t2)
	polyDeriv(lambdaPrime, lambda, t2+1)

	for i := 0; i < errorCount; i++ {
		if int(errorPos[i]) >= len(data) {
			return -1
		}
		if d.FirstRoot >= 0 {
			fcr := d.gfpow(lambdaRoot[i], (d.FirstRoot-1+n)%n)
			num := d.polyEval(omega, lambdaRoot[i], t)
			den := d.polyEval(lambdaPrime, lambdaRoot[i], t2)
			data[errorPos[i]] ^= d.gfdiv(d.gfmul(num, fcr), den)
		} else {
			data[errorPos[i]] ^= 0x1
		}
	}

	return errorCount
}

func (d *RSDecoder) polyEval(poly []byte, x byte, length int) byte {
	var ret byte
	for i := length - 1; i >= 0; i-- {
		ret = d.gfmul(ret, x) ^ poly[i]
	}
	return ret
}

func polyDeriv(dst, poly []byte, length int) {
	for i := 1; i < length; i++ {
		dst[i-1] = 0
		for j := 0; j < i; j++ {
			dst[i-1] ^= poly[i]
		}
	}
}

func (d *RSDecoder) polyMul(dst, poly1, poly2 []byte, len1, len2 int) {
	for i := 0; i < len1; i++ {
		dst[i] = 0
	}
	for j := 0; j < len2; j++ {
		for i := 0; i < len1; i++ {
			if i+j < len1 {
				dst[i+j] ^= d.gfmul(poly1[i], poly2[j])
			}
		}
	}
}

func (d *RSDecoder) gfmul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return d.alpha[(int(d.logtable[x])+int(d.logtable[y]))%d.N]
}

func (d *RSDecoder) gfdiv(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return d.alpha[(int(d.logtable[x])-int(d.logtable[y])+d.N)%d.N]
}

func (d *RSDecoder) gfpow(x byte, exp int) byte {
	if x == 0 {
		return 0
	}
	return d.alpha[(int(d.logtable[x])*exp)%d.N]
}
