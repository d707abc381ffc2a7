package bigint

// Add sets z to x + y. A carry out of the last byte overflows z.
func (z *BigUint) Add(x, y *BigUint) *BigUint {
	if x.overflow || y.overflow {
		return z.fault()
	}

	w := max(x.highByte, y.highByte) + 1

	var r BigUint
	carry := uint(0)
	for i := 0; i < w; i++ {
		s := uint(x.digits[i]) + uint(y.digits[i]) + carry
		r.digits[i] = byte(s)
		carry = s >> 8
	}

	if carry != 0 {
		if w == Capacity {
			return z.fault()
		}
		r.digits[w] = 1
		w++
	}

	r.normalize(w - 1)
	*z = r
	return z
}

// Sub sets z to x - y, computed as x plus the two's complement of y. The carry
// produced by that addition is not a fault. When y > x the result wraps
// around modulo 2^Bits.
func (z *BigUint) Sub(x, y *BigUint) *BigUint {
	if x.overflow || y.overflow {
		return z.fault()
	}

	w := max(x.highByte, y.highByte) + 1

	var r BigUint
	carry := uint(1)
	for i := 0; i < w; i++ {
		s := uint(x.digits[i]) + uint(^y.digits[i]) + carry
		r.digits[i] = byte(s)
		carry = s >> 8
	}

	top := w - 1
	if carry == 0 {
		// the complement's leading 0xff bytes never got absorbed
		for i := w; i < Capacity; i++ {
			r.digits[i] = 0xff
		}
		top = Capacity - 1
	}

	r.normalize(top)
	*z = r
	return z
}

// Mul sets z to x * y by shift-and-add. The operand with fewer set bits
// selects which shifted copies of the other one are summed. A product wider
// than the capacity overflows z.
func (z *BigUint) Mul(x, y *BigUint) *BigUint {
	if x.overflow || y.overflow {
		return z.fault()
	}

	s, m := x, y
	if x.OnesCount() > y.OnesCount() {
		s, m = y, x
	}

	var prod BigUint
	addend := *m
	shifted := 0

	for i := 0; i <= s.highBit; i++ {
		if s.Bit(i) == 0 {
			continue
		}

		// addend already holds m << shifted
		addend.Lsh(&addend, i-shifted)
		shifted = i

		prod.Add(&prod, &addend)
		if prod.overflow {
			return z.fault()
		}
	}

	*z = prod
	return z
}

// Square sets z to x * x.
func (z *BigUint) Square(x *BigUint) *BigUint {
	return z.Mul(x, x)
}

// Lsh sets z to x << n. Negative n, or a set bit moving past the capacity,
// overflows z.
func (z *BigUint) Lsh(x *BigUint, n int) *BigUint {
	if x.overflow || n < 0 {
		return z.fault()
	}
	if n == 0 || x.IsZero() {
		*z = *x
		return z
	}
	if n >= Bits-x.highBit {
		return z.fault()
	}

	byteShift, bitShift := n>>3, uint(n&7)
	top := (x.highBit + n) >> 3

	var r BigUint
	for j := byteShift; j <= top; j++ {
		k := j - byteShift
		v := x.digits[k] << bitShift
		if bitShift != 0 && k > 0 {
			v |= x.digits[k-1] >> (8 - bitShift)
		}
		r.digits[j] = v
	}

	r.normalize(top)
	*z = r
	return z
}

// Rsh sets z to x >> n. Negative n overflows z.
func (z *BigUint) Rsh(x *BigUint, n int) *BigUint {
	if x.overflow || n < 0 {
		return z.fault()
	}
	if n == 0 {
		*z = *x
		return z
	}
	if n > x.highBit {
		*z = BigUint{}
		return z
	}

	byteShift, bitShift := n>>3, uint(n&7)
	top := (x.highBit - n) >> 3

	var r BigUint
	for j := 0; j <= top; j++ {
		k := j + byteShift
		v := x.digits[k] >> bitShift
		if bitShift != 0 && k+1 < Capacity {
			v |= x.digits[k+1] << (8 - bitShift)
		}
		r.digits[j] = v
	}

	r.normalize(top)
	*z = r
	return z
}
