package pii

// luhnValid implements the Luhn checksum used by payment card numbers.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ssnValid enforces the U.S. SSN area/group/serial exclusions: area not
// 000, 666, or in 900-999; group not 00; serial not 0000.
func ssnValid(ssn string) bool {
	if len(ssn) != 11 {
		return false
	}
	area := ssn[0:3]
	group := ssn[4:6]
	serial := ssn[7:11]

	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	if group == "00" {
		return false
	}
	if serial == "0000" {
		return false
	}
	return true
}

// hkidChecksumValid validates a Hong Kong identity card number per the
// official algorithm: the eight characters before the check character
// (the letter prefix, padded with a leading space when it is a single
// letter, then the six digits) carry weights 9 down to 2, with
// A=10..Z=35, space=36 and digits at face value; the check character
// (A=10) carries weight 1, and the weighted sum must be a multiple of 11.
func hkidChecksumValid(raw string) bool {
	letters, digits, check, ok := splitHKID(raw)
	if !ok {
		return false
	}
	if len(letters) == 1 {
		letters = " " + letters
	}
	chars := letters + digits // always 8 characters
	weights := []int{9, 8, 7, 6, 5, 4, 3, 2}

	sum := 0
	for i, c := range chars {
		var val int
		switch {
		case c == ' ':
			val = 36
		case c >= 'A' && c <= 'Z':
			val = int(c-'A') + 10
		case c >= '0' && c <= '9':
			val = int(c - '0')
		default:
			return false
		}
		sum += val * weights[i]
	}

	checkVal := 10
	if check != 'A' {
		checkVal = int(check - '0')
	}
	sum += checkVal * 1

	return sum%11 == 0
}

func splitHKID(raw string) (letters, digits string, check byte, ok bool) {
	s := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '(' || raw[i] == ')' {
			continue
		}
		s = append(s, raw[i])
	}
	n := len(s)
	if n < 8 || n > 9 {
		return "", "", 0, false
	}
	check = s[n-1]
	body := string(s[:n-1])

	i := 0
	for i < len(body) && body[i] >= 'A' && body[i] <= 'Z' {
		i++
	}
	if i < 1 || i > 2 {
		return "", "", 0, false
	}
	letters = body[:i]
	digits = body[i:]
	if len(digits) != 6 {
		return "", "", 0, false
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return "", "", 0, false
		}
	}
	if !(check == 'A' || (check >= '0' && check <= '9')) {
		return "", "", 0, false
	}
	return letters, digits, check, true
}
