package web

import "html/template"

var funcMap = template.FuncMap{
	"mb": func(n int64) float64 { return float64(n) / (1 << 20) },
}

var page = template.Must(template.New("index").Funcs(funcMap).Parse(`
<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>DMZTools</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>
    :root { --bg:#fff; --fg:#111; --muted:#666; --border:#eee; }
    * { box-sizing: border-box; }
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; color: var(--fg); background: var(--bg); }
    h1 { margin-top: 0; font-size: 22px; }
    .wrap { display: grid; grid-template-columns: 1fr 360px; gap: 24px; }
    table { width: 100%; border-collapse: collapse; }
    th, td { padding: 8px 10px; border-bottom: 1px solid var(--border); vertical-align: middle; }
    tr:hover { background: #fafafa; }
    .side { position: sticky; top: 20px; height: fit-content; }
    .btn { padding: 10px 14px; border: 0; background: #111; color: #fff; border-radius: 8px; cursor: pointer; }
    .btn:disabled { opacity: .5; cursor: not-allowed; }
    .row { display:flex; gap:8px; align-items:center; }
    input[type="text"], input[type="number"] { padding: 10px; border: 1px solid #ddd; border-radius: 8px; }
    input[type="number"] { width: 90px; }
    .muted { color: var(--muted); font-size: 12px; }
    .toolbar { display:flex; gap:10px; align-items:center; margin-bottom:10px; }
    .search { flex: 1; }
    .small { font-size: 12px; }
    .badge { background:#f2f2f2; border:1px solid #e6e6e6; border-radius:999px; padding:2px 8px; font-size:11px; color:#444; }
    code { background:#f6f6f6; padding:2px 6px; border-radius:6px; }
    @media (max-width: 900px) {
      .wrap { grid-template-columns: 1fr; }
      .side { position: static; }
    }
  </style>
</head>
<body>
  <h1>DMZTools</h1>

  <div class="toolbar">
    <input id="q" class="search" type="text" placeholder="Filter by name...">
    <span class="small">Root: <code>{{.Root}}</code></span>
    <span class="badge" id="countBadge"></span>
  </div>

  <div class="wrap">
    <div>
      <div class="row" style="margin-bottom:10px;">
        <input id="fetchUrl" class="search" type="text" placeholder="https://... (PDF link or download page)">
        <button id="fetchBtn" type="button" class="btn">Add from URL</button>
      </div>
      <table id="tbl">
        <thead>
          <tr>
            <th style="width:56px;">Pick</th>
            <th>PDF</th>
            <th style="width:210px;">Order &amp; Preview</th>
          </tr>
        </thead>
        <tbody id="tbody">
          {{range .Files}}
          <tr class="fileRow" data-rel="{{.Rel}}">
            <td><input type="checkbox" class="pick" data-rel="{{.Rel}}"></td>
            <td>
              <div><strong>{{.Rel}}</strong></div>
              <div class="muted">{{printf "%.2f" (mb .Size)}} MB · {{.Mod.Format "2006-01-02 15:04"}}</div>
            </td>
            <td>
              <div class="row">
                <input type="number" class="order" data-rel="{{.Rel}}" min="1" step="1" placeholder="#">
                <button type="button" class="btn small previewBtn">Preview</button>
              </div>
            </td>
          </tr>
          {{end}}
        </tbody>
      </table>
    </div>

    <div class="side">
      <h3>Merge</h3>
      <div style="margin-bottom:12px;">
        <input id="outname" type="text" placeholder="Output name (optional)">
        <div class="muted">Saved as &lt;name&gt;-&lt;timestamp&gt;.pdf in <code>{{.OutDir}}</code></div>
      </div>
      <button id="mergeBtn" class="btn">Merge selected PDFs</button>
      <div id="status" style="margin-top:12px;"></div>

      <hr>
      <h3>QR code</h3>
      <input id="qrUrl" type="text" placeholder="https://example.com/shareable-link">
      <input id="qrName" type="text" placeholder="Output name (optional)">
      <button id="qrBtn" class="btn">Generate QR</button>
      <div id="qrStatus" style="margin-top:12px;"></div>

      <hr>
      <h3>Preview</h3>
      <div id="previewBox" style="height:420px;border:1px solid #eee;border-radius:8px;overflow:hidden;">
        <iframe id="previewFrame" src="" style="width:100%;height:100%;border:0;" title="Preview"></iframe>
      </div>
    </div>
  </div>

<script>
  const tbody = document.getElementById('tbody');
  const badge = document.getElementById('countBadge');

  function setPreview(rel) {
    if (!rel) return;
    document.getElementById('previewFrame').src = '/file?rel=' + encodeURIComponent(rel) + '#page=1&zoom=page-width';
  }

  function collectSelection() {
    const picks = Array.from(document.querySelectorAll('.pick:checked')).map(cb => cb.getAttribute('data-rel'));
    const orders = {};
    document.querySelectorAll('.order').forEach(inp => {
      const v = parseInt(inp.value || "0", 10);
      if (!isNaN(v) && v > 0) orders[inp.getAttribute('data-rel')] = v;
    });
    // explicit order first, then name
    return picks.slice().sort((a, b) => {
      const oa = (orders[a] || 1e9), ob = (orders[b] || 1e9);
      if (oa !== ob) return oa - ob;
      return a.localeCompare(b);
    });
  }

  function filterRows(q) {
    let shown = 0;
    tbody.querySelectorAll('tr.fileRow').forEach(tr => {
      const match = !q || (tr.getAttribute('data-rel') || '').toLowerCase().includes(q);
      tr.style.display = match ? '' : 'none';
      if (match) shown++;
    });
    badge.textContent = shown + ' files';
  }
  filterRows('');

  document.getElementById('q').addEventListener('input', (e) => {
    filterRows((e.target.value || '').toLowerCase());
  });

  tbody.addEventListener('click', (e) => {
    const row = e.target.closest('tr.fileRow');
    if (!row) return;
    if (e.target.classList.contains('previewBtn')) setPreview(row.getAttribute('data-rel'));
    if (e.target.classList.contains('pick') && document.querySelectorAll('.pick:checked').length === 1) {
      setPreview(e.target.getAttribute('data-rel'));
    }
  });

  async function post(path, body) {
    const resp = await fetch(path, {
      method: 'POST',
      headers: {'Content-Type':'application/json'},
      body: JSON.stringify(body)
    });
    return { ok: resp.ok, data: await resp.json() };
  }

  function show(id, html) { document.getElementById(id).innerHTML = html; }
  function link(href) { return '<a href="' + href + '" target="_blank" rel="noreferrer">' + href + '</a>'; }

  document.getElementById('mergeBtn').addEventListener('click', async () => {
    const list = collectSelection();
    if (list.length < 2) {
      show('status', '<span style="color:#c00">Select at least 2 files.</span>');
      return;
    }
    const btn = document.getElementById('mergeBtn');
    btn.disabled = true;
    show('status', 'Merging...');
    try {
      const r = await post('/merge', { files: list, out: document.getElementById('outname').value });
      show('status', r.ok ? 'Done (' + r.data.pages + ' pages): ' + link(r.data.download) : 'Error: ' + (r.data.error || 'merge failed'));
    } catch (e) {
      show('status', 'Error: ' + e);
    } finally {
      btn.disabled = false;
    }
  });

  document.getElementById('qrBtn').addEventListener('click', async () => {
    try {
      const r = await post('/qr', { url: document.getElementById('qrUrl').value, out: document.getElementById('qrName').value });
      show('qrStatus', r.ok ? 'Done: ' + link(r.data.download) : 'Error: ' + (r.data.error || 'qr failed'));
    } catch (e) {
      show('qrStatus', 'Error: ' + e);
    }
  });

  document.getElementById('fetchBtn').addEventListener('click', async () => {
    show('status', 'Downloading...');
    try {
      const r = await post('/fetch', { url: document.getElementById('fetchUrl').value });
      if (r.ok) {
        location.reload();
      } else {
        show('status', 'Error: ' + (r.data.error || 'download failed'));
      }
    } catch (e) {
      show('status', 'Error: ' + e);
    }
  });
</script>
</body>
</html>
`))
