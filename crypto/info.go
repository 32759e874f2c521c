package crypto

import "encoding/binary"

const (
	infoRecord   = "RECORD"
	infoKeyCheck = "KEYCHECK"
	infoVersion  = 1
)

func recordInfo(namespace, name string) []byte {
	return buildInfo(infoRecord, namespace, name, infoVersion)
}

func keyCheckInfo() []byte {
	return buildInfo(infoKeyCheck, infoVersion)
}

// buildInfo encodes HKDF info as length-prefixed strings and fixed-width
// integers, so distinct part lists never produce the same bytes.
func buildInfo(parts ...any) []byte {
	res := []byte("datawrapper:")
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			res = appendLenPrefix(res, []byte(v))
		case int:
			res = binary.BigEndian.AppendUint32(res, uint32(v))
		}
	}
	return res
}

func appendLenPrefix(b, data []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	return append(b, data...)
}
