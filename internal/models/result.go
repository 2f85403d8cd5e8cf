package models

type FetchJobDescriptionRequest struct {
	URL string `json:"url"`
}

type FetchJobDescriptionResponse struct {
	Message    string `json:"message"`
	Text       string `json:"text"`
	Characters int    `json:"characters"`
}

type AnalyzeResponse struct {
	ID                       string `json:"id"`
	Result                   string `json:"result"`
	ResultHTML               string `json:"result_html"`
	Model                    string `json:"model"`
	JobDescriptionCharacters int    `json:"job_description_characters"`
	Truncated                bool   `json:"truncated"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
