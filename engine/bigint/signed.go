package bigint

// Signed is a sign-and-magnitude integer. Sign is -1, 0 or +1; a zero sign
// means the value is zero whatever the magnitude holds.
type Signed struct {
	Mag  BigUint
	Sign int
}

// NewSigned returns the signed value sign*|mag|. A zero magnitude always gets
// sign 0.
func NewSigned(mag *BigUint, sign int) *Signed {
	z := &Signed{Mag: *mag, Sign: sign}
	if mag.IsZero() {
		z.Sign = 0
	}
	return z
}

// Overflow reports whether the magnitude carries the sticky fault.
func (x *Signed) Overflow() bool {
	return x.Mag.overflow
}

func checkSign(s int) {
	if s < -1 || s > 1 {
		panic("bigint: invalid sign")
	}
}

// Add sets z to x + y.
func (z *Signed) Add(x, y *Signed) *Signed {
	return z.combine(x, y.Sign, &y.Mag)
}

// Sub sets z to x - y.
func (z *Signed) Sub(x, y *Signed) *Signed {
	return z.combine(x, -y.Sign, &y.Mag)
}

// combine sets z to x + ys*|ym|. Equal signs add magnitudes and keep the
// sign; opposite signs subtract the smaller magnitude from the larger one and
// take the larger one's sign.
func (z *Signed) combine(x *Signed, ys int, ym *BigUint) *Signed {
	xs := x.Sign
	checkSign(xs)
	checkSign(ys)

	if x.Mag.overflow || ym.overflow {
		z.Mag.fault()
		z.Sign = 0
		return z
	}

	var mag BigUint
	sign := 0

	switch {
	case xs == 0 && ys == 0:
	case xs == 0:
		mag, sign = *ym, ys
	case ys == 0:
		mag, sign = x.Mag, xs
	case xs == ys:
		mag.Add(&x.Mag, ym)
		sign = xs
	case xs == -ys:
		switch c := x.Mag.cmp(ym); {
		case c > 0:
			mag.Sub(&x.Mag, ym)
			sign = xs
		case c < 0:
			mag.Sub(ym, &x.Mag)
			sign = ys
		}
	default:
		panic("bigint: unreachable signed case")
	}

	if mag.IsZero() {
		sign = 0
	}
	z.Mag = mag
	z.Sign = sign
	return z
}

// Mul sets z to x * y.
func (z *Signed) Mul(x, y *Signed) *Signed {
	checkSign(x.Sign)
	checkSign(y.Sign)

	sign := x.Sign * y.Sign
	z.Mag.Mul(&x.Mag, &y.Mag)
	if z.Mag.IsZero() {
		sign = 0
	}
	z.Sign = sign
	return z
}
