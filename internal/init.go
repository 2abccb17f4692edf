package internal

import (
	"github.com/Meesho/BharatMLStack/company-export/internal/configs"
	"github.com/Meesho/BharatMLStack/company-export/internal/externalcall"
)

func InitAll(config configs.Configs) {
	externalcall.Init(config)
}
