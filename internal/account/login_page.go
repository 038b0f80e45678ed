package account

import (
	"html/template"
	"net/http"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
<main>
  <h1>Back office</h1>
  {{if .Failed}}<p role="alert">Invalid credentials</p>{{end}}
  <form method="post" action="{{.Action}}">
    <input type="hidden" name="callbackUrl" value="{{.Callback}}">
    <label>Email <input type="email" name="email" autocomplete="username" required></label>
    <label>Password <input type="password" name="password" autocomplete="current-password" required></label>
    <button type="submit">Sign in</button>
  </form>
</main>
</body>
</html>
`))

type loginView struct {
	Action   string
	Callback string
	Failed   bool
}

// LoginPage renders the sign-in form. The callback is sanitized before it
// is echoed back.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := loginView{
		Action:   r.URL.Path,
		Callback: SafeCallback(q.Get("callbackUrl")),
		Failed:   q.Get("error") != "",
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := loginTmpl.Execute(w, v); err != nil {
		h.logger.Errorw("render login page", "err", err)
	}
}
