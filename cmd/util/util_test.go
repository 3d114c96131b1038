package util

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestWrapString(t *testing.T) {
	text := "The udp address of the ukv server. Multiple endpoints can be specified as a comma-separated list"
	wrapped := WrapString(text)

	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > Wrap {
			t.Errorf("Line exceeds %d characters: %q", Wrap, line)
		}
	}
	if strings.Join(strings.Fields(wrapped), " ") != text {
		t.Errorf("Expected wrapping to keep all words, got %q", wrapped)
	}

	if WrapString("") != "" {
		t.Errorf("Expected empty string to stay empty")
	}
}

func TestGetClientConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("endpoint", "127.0.0.1:8080, 127.0.0.1:8081,")
	viper.Set("timeout", 2)
	viper.Set("retries", 4)
	viper.Set("conn-per-endpoint", 3)
	viper.Set("read-buffer", 8)

	config := GetClientConfig()
	if len(config.Endpoints) != 2 || config.Endpoints[1] != "127.0.0.1:8081" {
		t.Errorf("Unexpected endpoints %v", config.Endpoints)
	}
	if config.TimeoutSecond != 2 || config.RetryCount != 4 || config.ConnectionsPerEndpoint != 3 {
		t.Errorf("Unexpected config %+v", config)
	}
	if config.ReadBufferSize != 8*1024 {
		t.Errorf("Expected read buffer of 8 KB, got %d", config.ReadBufferSize)
	}
}

func TestInitEnv(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("UKV_DATA_FILE", "other.json")

	InitEnv()
	if got := viper.GetString("data-file"); got != "other.json" {
		t.Errorf("Expected UKV_DATA_FILE to be read as data-file, got %q", got)
	}
}
