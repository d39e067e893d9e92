package config

import "time"

type FakeAPI struct{}

var _ FakeAPIConfig = FakeAPI{}

func (FakeAPI) GetFakeAPIPort() string {
	return portAddr(GetEnv("FAKEAPI_PORT", "8000"))
}

func (FakeAPI) GetFakeAPISigningKey() string {
	return GetEnv("FAKEAPI_SIGNING_KEY", "dev-signing-key")
}

func (FakeAPI) GetFakeAPITokenTTL() time.Duration {
	return GetDuration("FAKEAPI_TOKEN_TTL", 24*time.Hour)
}
