package web

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Zone Route Planner</title>
  <style>
    body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
    label { display: block; margin-top: 0.75rem; }
    pre { background: #f4f4f4; padding: 1rem; white-space: pre-wrap; }
    .error { color: #b00020; }
  </style>
</head>
<body>
  <h1>Zone Route Planner</h1>
  <form method="post" action="/">
    <label for="from_zone">From Zone</label>
    <input id="from_zone" name="from_zone" list="zones" value="{{.From}}">
    <label for="to_zone">To Zone</label>
    <input id="to_zone" name="to_zone" list="zones" value="{{.To}}" required>
    <datalist id="zones">
      {{- range .AllZones}}
      <option value="{{.}}">
      {{- end}}
    </datalist>
    <p><button type="submit">Find Route</button></p>
  </form>
  {{- if .Error}}
  <p class="error">{{.Error}}</p>
  {{- end}}
  {{- if .Result}}
  <pre id="result">{{.Result}}</pre>
  {{- end}}
</body>
</html>
`
