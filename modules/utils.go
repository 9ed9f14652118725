package modules

func summarizeErr(err error) string {
	if err == nil {
		return ""
	}
	return truncate(err.Error(), 200)
}
