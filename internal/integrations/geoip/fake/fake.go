package fake

import (
	"context"
	"hash/fnv"

	"github.com/BearBump/WriteDesk/internal/integrations/geoip"
	"github.com/pkg/errors"
)

// FakeClient заглушка геолокации для локального запуска, страна
// детерминированно выводится из IP.
type FakeClient struct {
	countries []string
}

func New() *FakeClient {
	return &FakeClient{countries: []string{
		"United States", "United Kingdom", "Canada", "Australia", "United Arab Emirates",
	}}
}

func (f *FakeClient) Country(ctx context.Context, ip string) (string, error) {
	if !geoip.IsPublic(ip) {
		return "", errors.Errorf("fake geoip: %q is not a public address", ip)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(ip))
	return f.countries[h.Sum32()%uint32(len(f.countries))], nil
}
