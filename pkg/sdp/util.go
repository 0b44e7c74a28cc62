package sdp

import "strconv"

func itoa(n int) string {
	return strconv.Itoa(n)
}

func itoa4(a, b, c, d int) string {
	return itoa(a) + "," + itoa(b) + "," + itoa(c) + "," + itoa(d)
}
