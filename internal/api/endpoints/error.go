package endpoints

import "support-desk-backend/internal/api"

type HTTPError = api.HTTPError
