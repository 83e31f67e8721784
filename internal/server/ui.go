package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleIndex serves the interactive translation page
func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Telugu to English Translation</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { font-size: 1.4rem; }
  textarea { width: 100%; min-height: 7rem; font-size: 1.1rem; padding: .5rem; box-sizing: border-box; }
  button { margin-top: .5rem; padding: .5rem 1.2rem; font-size: 1rem; cursor: pointer; }
  button:disabled { cursor: wait; opacity: .6; }
  .result { margin-top: 1rem; padding: 1rem; background: #f4f4f4; border-radius: 6px; min-height: 2rem; white-space: pre-wrap; }
  .error { color: #a00; }
  fieldset { margin-top: 1.5rem; border: 1px solid #ccc; border-radius: 6px; }
  audio { display: block; margin-top: .8rem; width: 100%; }
</style>
</head>
<body>
<h1>Telugu to English Translation</h1>

<fieldset>
<legend>Text</legend>
<textarea id="text" placeholder="తెలుగు వచనం ఇక్కడ రాయండి..."></textarea>
<button id="translate">Translate</button>
</fieldset>

<fieldset>
<legend>Audio</legend>
<input type="file" id="audio" accept=".wav,.mp3,.m4a,.ogg,.flac,.webm">
<button id="translate-audio">Translate Audio</button>
</fieldset>

<div class="result" id="result"></div>
<audio id="player" controls hidden></audio>

<script>
const result = document.getElementById('result');
const player = document.getElementById('player');

function showError(msg) {
  result.textContent = msg;
  result.classList.add('error');
  player.hidden = true;
}

function showResult(data) {
  result.textContent = data.translation;
  result.classList.remove('error');
  if (data.audioUrl) {
    player.src = data.audioUrl;
    player.hidden = false;
  } else {
    player.hidden = true;
  }
}

async function submit(btn, doFetch) {
  btn.disabled = true;
  result.textContent = 'Translating...';
  result.classList.remove('error');
  try {
    const resp = await doFetch();
    const body = await resp.json();
    if (!body.success) {
      showError(body.message || body.error || 'translation failed');
    } else {
      showResult(body.data);
    }
  } catch (err) {
    showError('request failed: ' + err);
  } finally {
    btn.disabled = false;
  }
}

document.getElementById('translate').addEventListener('click', (e) => {
  const text = document.getElementById('text').value;
  submit(e.target, () => fetch('/api/translate', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({ text }),
  }));
});

document.getElementById('translate-audio').addEventListener('click', (e) => {
  const input = document.getElementById('audio');
  if (!input.files.length) {
    showError('choose an audio file first');
    return;
  }
  const form = new FormData();
  form.append('audio', input.files[0]);
  submit(e.target, () => fetch('/api/translate/audio', { method: 'POST', body: form }));
});
</script>
</body>
</html>
`
