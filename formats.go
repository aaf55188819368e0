// Format checkers adapted from https://github.com/santhosh-tekuri/jsonschema
package jsonschema

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Formats is the registry of named format predicates over strings. The map
// is consulted after compiler-registered custom formats; adding to it
// extends every compiler in the process.
var Formats = map[string]func(string) bool{
	"date-time":             IsDateTime,
	"date":                  IsDate,
	"time":                  IsTime,
	"duration":              IsDuration,
	"hostname":              IsHostname,
	"idn-hostname":          IsHostname,
	"email":                 IsEmail,
	"idn-email":             IsEmail,
	"ip-address":            IsIPv4,
	"ipv4":                  IsIPv4,
	"ipv6":                  IsIPv6,
	"uri":                   IsURI,
	"iri":                   IsURI,
	"uri-reference":         IsURIReference,
	"uriref":                IsURIReference,
	"iri-reference":         IsURIReference,
	"uri-template":          IsURITemplate,
	"json-pointer":          IsJSONPointer,
	"relative-json-pointer": IsRelativeJSONPointer,
	"uuid":                  IsUUID,
	"regex":                 IsRegex,
	"unknown":               func(string) bool { return true },
}

// IsDateTime reports whether the string is an RFC 3339 date-time.
//
// See https://datatracker.ietf.org/doc/html/rfc3339#section-5.6 for details.
func IsDateTime(s string) bool {
	if len(s) < 20 { // yyyy-mm-ddThh:mm:ssZ
		return false
	}
	if s[10] != 'T' && s[10] != 't' {
		return false
	}
	return IsDate(s[:10]) && IsTime(s[11:])
}

// IsDate reports whether the string is an RFC 3339 full-date.
func IsDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil && len(s) == 10
}

// IsTime reports whether the string is an RFC 3339 full-time, including
// leap-second tolerance at 23:59:60.
func IsTime(s string) bool {
	str := strings.ToLower(s)
	if strings.HasSuffix(str, "z") {
		str = str[:len(str)-1] + "+00:00"
	}
	// hh:mm:ss(.fraction)?(+|-)hh:mm
	i := strings.IndexAny(str, "+-")
	if i < 0 {
		return false
	}
	clock, offset := str[:i], str[i:]
	if len(offset) != 6 || offset[3] != ':' {
		return false
	}
	offH, err1 := strconv.Atoi(offset[1:3])
	offM, err2 := strconv.Atoi(offset[4:6])
	if err1 != nil || err2 != nil || offH > 23 || offM > 59 {
		return false
	}

	frac := ""
	if j := strings.IndexByte(clock, '.'); j >= 0 {
		clock, frac = clock[:j], clock[j+1:]
		if frac == "" {
			return false
		}
		for _, c := range frac {
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	if len(clock) != 8 || clock[2] != ':' || clock[5] != ':' {
		return false
	}
	h, err1 := strconv.Atoi(clock[0:2])
	m, err2 := strconv.Atoi(clock[3:5])
	sec, err3 := strconv.Atoi(clock[6:8])
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	if h > 23 || m > 59 || sec > 60 {
		return false
	}
	if sec == 60 {
		// Leap seconds only occur at 23:59:60 UTC.
		utc := h*60 + m - (offH*60 + offM)
		if offset[0] == '-' {
			utc = h*60 + m + offH*60 + offM
		}
		utc = (utc%1440 + 1440) % 1440
		return utc == 23*60+59
	}
	return true
}

var durationRe = regexp.MustCompile(`^P(?:\d+W|(?:\d+Y)?(?:\d+M)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+S)?)?)$`)

// IsDuration reports whether the string is an ISO 8601 duration as specified
// by RFC 3339 appendix A.
func IsDuration(s string) bool {
	if !durationRe.MatchString(s) {
		return false
	}
	// P alone, or a T with nothing behind it, matches the regexp but is not
	// a duration.
	return s != "P" && !strings.HasSuffix(s, "T")
}

// IsHostname reports whether the string is a valid hostname per RFC 1034.
func IsHostname(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, c := range label {
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			default:
				return false
			}
		}
	}
	return true
}

// IsEmail reports whether the string is an RFC 5322 address.
func IsEmail(s string) bool {
	if !strings.Contains(s, "@") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// IsIPv4 reports whether the string is a dotted-quad IPv4 address.
func IsIPv4(s string) bool {
	if strings.Count(s, ".") != 3 {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if len(part) == 0 || len(part) > 3 {
			return false
		}
		if len(part) > 1 && part[0] == '0' {
			return false // no leading zeros
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return false
		}
	}
	return net.ParseIP(s) != nil
}

// IsIPv6 reports whether the string is an IPv6 address.
func IsIPv6(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	return net.ParseIP(s) != nil
}

// IsURI reports whether the string is an absolute URI.
func IsURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs() && !strings.Contains(s, " ")
}

// IsURIReference reports whether the string is a URI reference, absolute or
// relative.
func IsURIReference(s string) bool {
	_, err := url.Parse(s)
	return err == nil && !strings.Contains(s, " ") && !strings.Contains(s, "\\")
}

// IsURITemplate reports whether the string is an RFC 6570 URI template.
func IsURITemplate(s string) bool {
	depth := 0
	for _, c := range s {
		switch c {
		case '{':
			depth++
			if depth > 1 {
				return false
			}
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		case ' ':
			return false
		}
	}
	return depth == 0
}

// IsJSONPointer reports whether the string is an RFC 6901 JSON Pointer.
func IsJSONPointer(s string) bool {
	if s == "" {
		return true
	}
	if !strings.HasPrefix(s, "/") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '~' {
			continue
		}
		if i+1 >= len(s) || (s[i+1] != '0' && s[i+1] != '1') {
			return false
		}
	}
	return true
}

// IsRelativeJSONPointer reports whether the string is a relative JSON
// Pointer: a non-negative integer prefix followed by "#" or a pointer.
func IsRelativeJSONPointer(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || (s[0] == '0' && i > 1) {
		return false
	}
	rest := s[i:]
	return rest == "#" || IsJSONPointer(rest)
}

// uuidGroups are the hex-digit group lengths of the 8-4-4-4-12 form.
var uuidGroups = [5]int{8, 4, 4, 4, 12}

// IsUUID reports whether the string is an RFC 4122 UUID.
func IsUUID(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 5 {
		return false
	}
	for i, part := range parts {
		if len(part) != uuidGroups[i] {
			return false
		}
		for _, c := range part {
			switch {
			case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			default:
				return false
			}
		}
	}
	return true
}

// IsRegex reports whether the string compiles as a regular expression. RE2
// acceptance is used as the proxy for ECMA-262.
func IsRegex(s string) bool {
	_, err := regexp.Compile(translateECMAPattern(s))
	return err == nil
}
