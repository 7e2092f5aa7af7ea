package preview

// explorerPage is the self-contained schema explorer. It renders from
// /api/schema and refetches whenever the reload socket announces a reparse.
const explorerPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .App}}{{.App}} · {{end}}Blueprint Schema Explorer</title>
<style>
  :root { --bg: #0f1419; --panel: #1a2027; --border: #2d3640; --text: #e6e8ea;
          --muted: #8b98a5; --accent: #4fc1e9; --ok: #5cd859; --warn: #ffce54; --err: #ed5565; }
  * { box-sizing: border-box; }
  body { margin: 0; background: var(--bg); color: var(--text);
         font: 14px/1.5 "SF Mono", Menlo, Consolas, monospace; }
  header { display: flex; align-items: center; gap: 12px; padding: 16px 24px;
           border-bottom: 1px solid var(--border); }
  header h1 { font-size: 16px; margin: 0; font-weight: 600; }
  #status { width: 10px; height: 10px; border-radius: 50%; background: var(--muted); }
  #status.live { background: var(--ok); }
  #status.building { background: var(--warn); }
  #meta { color: var(--muted); font-size: 12px; margin-left: auto; }
  main { padding: 24px; max-width: 1100px; margin: 0 auto; }
  #diagnostics { display: none; background: rgba(237,85,101,0.08);
                 border: 1px solid var(--err); border-radius: 6px;
                 padding: 12px 16px; margin-bottom: 24px; }
  #diagnostics.warnings { border-color: var(--warn); background: rgba(255,206,84,0.06); }
  #diagnostics div { margin: 2px 0; }
  .section-title { color: var(--muted); text-transform: uppercase; font-size: 11px;
                   letter-spacing: 0.1em; margin: 24px 0 12px; }
  #enums { display: flex; flex-wrap: wrap; gap: 8px; }
  .enum { background: var(--panel); border: 1px solid var(--border); border-radius: 6px;
          padding: 8px 12px; }
  .enum b { color: var(--accent); }
  .enum span { color: var(--muted); }
  #entities { display: grid; grid-template-columns: repeat(auto-fill, minmax(320px, 1fr));
              gap: 16px; }
  .entity { background: var(--panel); border: 1px solid var(--border); border-radius: 6px;
            overflow: hidden; }
  .entity h2 { font-size: 14px; margin: 0; padding: 10px 14px;
               border-bottom: 1px solid var(--border); color: var(--accent); }
  .entity h2 a { color: inherit; text-decoration: none; }
  .entity h2 a:hover { text-decoration: underline; }
  .entity h2 small { color: var(--muted); font-weight: normal; float: right; }
  .entity table { width: 100%; border-collapse: collapse; }
  .entity td { padding: 5px 14px; border-bottom: 1px solid rgba(45,54,64,0.5); }
  .entity tr:last-child td { border-bottom: none; }
  td.type { color: var(--muted); text-align: right; }
  .req { color: var(--warn); }
  .rel { color: var(--ok); }
  .audit { color: var(--muted); font-style: italic; }
  #empty { color: var(--muted); padding: 48px 0; text-align: center; }
</style>
</head>
<body>
<header>
  <div id="status"></div>
  <h1>{{if .App}}{{.App}}{{else}}Blueprint{{end}} schema</h1>
  <div id="meta"></div>
</header>
<main>
  <div id="diagnostics"></div>
  <div id="content"></div>
</main>
<script>
(function () {
  var status = document.getElementById('status');
  var meta = document.getElementById('meta');
  var diagBox = document.getElementById('diagnostics');
  var content = document.getElementById('content');

  function esc(s) {
    return String(s == null ? '' : s).replace(/[&<>"]/g, function (c) {
      return { '&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;' }[c];
    });
  }

  function fieldRow(f) {
    var flags = [];
    if (f.required) flags.push('<span class="req">required</span>');
    if (f.audit) flags.push('<span class="audit">audit</span>');
    if (f.relationship_type) {
      flags.push('<span class="rel">' + esc(f.relationship_type) + ' → ' + esc(f.target_entity) + '</span>');
    }
    return '<tr><td>' + esc(f.name) + (flags.length ? ' ' + flags.join(' ') : '') +
      '</td><td class="type">' + esc(f.type) + '</td></tr>';
  }

  function render(data) {
    var schema = data.schema;
    var diags = data.diagnostics || [];

    if (diags.length) {
      var hasError = diags.some(function (d) { return d.severity === 'error'; });
      diagBox.className = hasError ? '' : 'warnings';
      diagBox.style.display = 'block';
      diagBox.innerHTML = diags.map(function (d) {
        return '<div>' + esc(d.file) + ':' + d.line + ' [' + esc(d.severity) + '] ' +
          esc(d.message) + ' (' + esc(d.code) + ')</div>';
      }).join('');
    } else {
      diagBox.style.display = 'none';
    }

    if (!schema || !schema.entities || !schema.entities.length) {
      content.innerHTML = '<div id="empty">No entities parsed yet. Save a .jdl file to get started.</div>';
      meta.textContent = '';
      return;
    }

    var html = '';
    if (schema.enums && schema.enums.length) {
      html += '<div class="section-title">Enums</div><div id="enums">' +
        schema.enums.map(function (e) {
          return '<div class="enum"><b>' + esc(e.name) + '</b> <span>' +
            e.values.map(esc).join(' · ') + '</span></div>';
        }).join('') + '</div>';
    }

    html += '<div class="section-title">Entities</div><div id="entities">' +
      schema.entities.map(function (en) {
        return '<div class="entity"><h2>' +
          '<a href="/views/' + encodeURIComponent(en.name) + '" title="Scaffold preview">' +
          esc(en.name) + '</a>' +
          '<small>' + esc(en.table) + '</small></h2><table>' +
          en.fields.map(fieldRow).join('') + '</table></div>';
      }).join('') + '</div>';

    content.innerHTML = html;
    meta.textContent = schema.entities.length + ' entities · ' +
      (schema.enums ? schema.enums.length : 0) + ' enums · updated ' +
      new Date(data.updated_at).toLocaleTimeString();
  }

  function refresh() {
    fetch('/api/schema').then(function (r) { return r.json(); }).then(render);
  }

  function connect() {
    var ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
    ws.onopen = function () { status.className = 'live'; };
    ws.onclose = function () {
      status.className = '';
      setTimeout(connect, 1000);
    };
    ws.onmessage = function (msg) {
      var event = JSON.parse(msg.data);
      if (event.type === 'parsing') {
        status.className = 'building';
      } else {
        status.className = 'live';
        refresh();
      }
    };
  }

  refresh();
  connect();
})();
</script>
</body>
</html>
`

// viewsPage shows the HTML scaffolds generation would emit for one entity:
// each one rendered live, with its source underneath.
const viewsPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Entity}} scaffolds{{if .App}} · {{.App}}{{end}}</title>
<style>
  :root { --bg: #0f1419; --panel: #1a2027; --border: #2d3640; --text: #e6e8ea;
          --muted: #8b98a5; --accent: #4fc1e9; }
  * { box-sizing: border-box; }
  body { margin: 0; background: var(--bg); color: var(--text);
         font: 14px/1.5 "SF Mono", Menlo, Consolas, monospace; }
  header { display: flex; align-items: baseline; gap: 12px; padding: 16px 24px;
           border-bottom: 1px solid var(--border); }
  header h1 { font-size: 16px; margin: 0; font-weight: 600; }
  header a { color: var(--muted); text-decoration: none; font-size: 12px; margin-left: auto; }
  header a:hover { color: var(--accent); }
  main { padding: 24px; max-width: 900px; margin: 0 auto; }
  .section-title { color: var(--muted); text-transform: uppercase; font-size: 11px;
                   letter-spacing: 0.1em; margin: 24px 0 12px; }
  .scaffold { background: #fff; color: #1a2027; border-radius: 6px; padding: 20px;
              font: 14px/1.5 -apple-system, "Segoe UI", sans-serif; }
  .scaffold table { width: 100%; border-collapse: collapse; }
  .scaffold th, .scaffold td { text-align: left; padding: 6px 10px;
                               border-bottom: 1px solid #e0e4e8; }
  .scaffold .field { margin-bottom: 12px; }
  .scaffold label { display: block; font-weight: 600; margin-bottom: 4px; }
  .scaffold input, .scaffold textarea, .scaffold select { width: 100%; padding: 6px 8px;
              border: 1px solid #c6ccd2; border-radius: 4px; font: inherit; }
  .scaffold input[type=checkbox] { width: auto; }
  .scaffold button { margin-top: 8px; padding: 8px 16px; border: none; border-radius: 4px;
                     background: #2d3640; color: #fff; font: inherit; cursor: pointer; }
  details { margin-top: 12px; }
  summary { color: var(--muted); cursor: pointer; font-size: 12px; }
  pre { background: var(--panel); border: 1px solid var(--border); border-radius: 6px;
        padding: 14px; overflow-x: auto; font-size: 12px; }
</style>
</head>
<body>
<header>
  <h1>{{.Entity}} scaffolds</h1>
  <a href="/">&larr; back to schema</a>
</header>
<main>
{{- range .Scaffolds}}
  <div class="section-title">{{.Title}}</div>
  <div class="scaffold">{{.Rendered}}</div>
  <details>
    <summary>source</summary>
    <pre>{{.Source}}</pre>
  </details>
{{- end}}
</main>
</body>
</html>
`
