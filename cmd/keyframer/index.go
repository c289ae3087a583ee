package main

// indexPage is a minimal front end for the live preview.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>keyframer</title>
<style>
  body { background: #1e1e1e; color: #ddd; font: 14px sans-serif; margin: 1em; }
  #stage { width: 500px; height: 400px; overflow: hidden; background: #fff; }
  #stage iframe { border: 0; transform-origin: top left; }
  #controls { margin: 1em 0; }
  #command { width: 500px; }
  #log { color: #f66; }
</style>
</head>
<body>
<div id="stage"><iframe id="preview" sandbox="allow-same-origin"></iframe></div>
<div id="controls">
  <button data-op="play">play</button>
  <button data-op="pause">pause</button>
  <button data-op="stop">stop</button>
  <input id="cursor" type="range" min="0" max="100" step="0.01" value="0">
  <span id="time">0ms</span>
</div>
<div>
  <input id="command" placeholder='{"op":"add-keyframe","element":"box","time":1200}'>
  <button id="send">send</button>
</div>
<pre id="log"></pre>
<script>
  const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  const frame = document.getElementById("preview");
  const cursor = document.getElementById("cursor");
  const time = document.getElementById("time");
  const log = document.getElementById("log");
  let duration = 0;
  const send = (cmd) => ws.send(JSON.stringify(cmd));
  ws.onmessage = (e) => {
    const msg = JSON.parse(e.data);
    if (msg.type === "frame") {
      const f = msg.frame;
      frame.srcdoc = f.html;
      frame.style.transform = "scale(" + f.scale + ")";
      frame.width = 500 / f.scale;
      frame.height = 400 / f.scale;
      duration = f.duration;
      cursor.value = f.percent;
      time.textContent = Math.round(f.currentTime) + "ms";
    } else if (msg.type === "cursor") {
      cursor.value = msg.cursor.percent;
      time.textContent = Math.round(msg.cursor.ms) + "ms";
    } else if (msg.type === "error") {
      log.textContent = msg.error;
    }
  };
  document.querySelectorAll("button[data-op]").forEach((b) => {
    b.onclick = () => send({ op: b.dataset.op });
  });
  cursor.oninput = () => {
    send({ op: "seek", percent: Number(cursor.value) });
  };
  document.getElementById("send").onclick = () => {
    try {
      send(JSON.parse(document.getElementById("command").value));
      log.textContent = "";
    } catch (err) {
      log.textContent = err;
    }
  };
</script>
</body>
</html>
`
