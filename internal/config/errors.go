package config

import "errors"

var ErrJWTSecretMissing = errors.New("jwt.secret must be configured, set it in the config file or via TRIPMATE_JWT_SECRET")
