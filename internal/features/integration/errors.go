package integration

import "errors"

var ErrMissingTestFields = errors.New("templateId and campaignName are required")
