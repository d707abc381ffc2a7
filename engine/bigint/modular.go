package bigint

// divide runs binary long division of x by m. The divisor is aligned just
// below the remainder's top bit and subtracted while it fits, then realigned.
// The quotient is only accumulated when q is non-nil.
func divide(q, r, x, m *BigUint) {
	if m.IsZero() {
		panic("bigint: division by zero")
	}

	rem := *x
	var quo, aligned, weight BigUint

	for rem.cmp(m) >= 0 {
		shift := max(rem.highBit-m.highBit-1, 0)
		aligned.Lsh(m, shift)
		if q != nil {
			weight = BigUint{}
			weight.SetBit(shift, 1)
		}

		for rem.cmp(&aligned) >= 0 {
			rem.Sub(&rem, &aligned)
			if q != nil {
				quo.Add(&quo, &weight)
			}
		}
	}

	if q != nil {
		*q = quo
	}
	if r != nil {
		*r = rem
	}
}

// Quo sets z to the quotient x / y, rounded down. y must not be zero.
func (z *BigUint) Quo(x, y *BigUint) *BigUint {
	if x.overflow || y.overflow {
		return z.fault()
	}
	divide(z, nil, x, y)
	return z
}

// Mod sets z to the remainder x mod y. y must not be zero.
func (z *BigUint) Mod(x, y *BigUint) *BigUint {
	if x.overflow || y.overflow {
		return z.fault()
	}
	divide(nil, z, x, y)
	return z
}

// QuoRem sets z to x / y and r to x mod y, returning both. y must not be
// zero and z must not alias r.
func (z *BigUint) QuoRem(x, y, r *BigUint) (*BigUint, *BigUint) {
	if x.overflow || y.overflow {
		z.fault()
		r.fault()
		return z, r
	}
	divide(z, r, x, y)
	return z, r
}

// Exp sets z to x^e mod m with right-to-left square-and-multiply: an even
// exponent squares the base and halves, an odd one multiplies the base into
// the result and decrements. m must not be zero.
func (z *BigUint) Exp(x, e, m *BigUint) *BigUint {
	if x.overflow || e.overflow || m.overflow {
		return z.fault()
	}
	if m.IsZero() {
		panic("bigint: zero modulus")
	}

	var base, exp, acc, one BigUint
	one.SetUint64(1)
	acc.Mod(&one, m)
	base.Mod(x, m)
	exp = *e

	for !exp.IsZero() {
		if exp.IsEven() {
			base.Square(&base)
			base.Mod(&base, m)
			exp.Rsh(&exp, 1)
		} else {
			acc.Mul(&acc, &base)
			acc.Mod(&acc, m)
			exp.Sub(&exp, &one)
		}

		if acc.overflow || base.overflow {
			return z.fault()
		}
	}

	*z = acc
	return z
}
