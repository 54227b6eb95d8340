package presets

import (
	cryptorand "crypto/rand"
	"fmt"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerCrypto gives WinterCG scripts a minimal `crypto` global:
// getRandomValues (fills a typed-array-shaped Array of numbers 0-255 in
// place, returning it, matching the Web Crypto signature) and randomUUID.
// There is no SubtleCrypto — digest/sign/encrypt algorithms are well
// outside what an interpreter-focused sandbox needs to demonstrate.
func registerCrypto(g *evaluator.Globals) {
	obj := namespace(map[string]runtime.HostFunc{
		"getRandomValues": hostFn(cryptoGetRandomValues),
		"randomUUID":      hostFn(cryptoRandomUUID),
	})
	g.RegisterValue("crypto", obj)
}

func cryptoGetRandomValues(args []values.Value) (values.Value, error) {
	arr, ok := argOr(args, 0, values.Undefined{}).(*values.Array)
	if !ok {
		return values.Undefined{}, fmt.Errorf("crypto.getRandomValues: argument must be an array-like typed array")
	}
	buf := make([]byte, arr.Len())
	if _, err := cryptorand.Read(buf); err != nil {
		return values.Undefined{}, err
	}
	for i, b := range buf {
		arr.Set(i, values.Number(float64(b)))
	}
	return arr, nil
}

func cryptoRandomUUID(_ []values.Value) (values.Value, error) {
	var buf [16]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return values.Undefined{}, err
	}
	buf[6] = (buf[6] & 0x0f) | 0x40
	buf[8] = (buf[8] & 0x3f) | 0x80
	return values.String(fmt.Sprintf("%x-%x-%x-%x-%x", buf[0:4], buf[4:6], buf[6:8], buf[8:10], buf[10:16])), nil
}
