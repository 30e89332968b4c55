package captions

// Tag marks caption payload lines on the page's console stream. The host
// listener drops every console line that does not start with it.
const Tag = "MEETSCRIBE_CAPTION::"

// observerScript runs inside the page before its own scripts execute.
// There is no push API for captions, so it watches for subtree insertions
// matching the known caption-container shapes and forwards each one as a
// tagged single-line JSON record through console.log, the diagnostic
// channel that already crosses the process boundary.
//
// The wire record is flat and versioned so fields can be added later
// without breaking older hosts. The full container list is re-walked on
// every mutation: when the platform ships new markup mid-session, capture
// degrades instead of stopping. Re-insertions of an already-seen caption
// node are forwarded again; no deduplication happens on either side.
const observerScript = `(function() {
	if (window.__meetscribeObserver) return;
	window.__meetscribeObserver = true;

	var CONTAINERS = [
		{ root: 'div[jsname="dsyhDe"]', speaker: '.NWpY1d', text: '.VbkSUe' },
		{ root: 'div[jscontroller="KPn5nb"]', speaker: '.zs7s8d', text: '.iTTPOb' },
		{ root: '.a4cQT', speaker: '.KcIKyf', text: '.bh44bd' },
		{ root: '[aria-live="polite"]', speaker: null, text: null }
	];

	function textOf(node) {
		return (node && (node.innerText || node.textContent) || '').trim();
	}

	function emit(speaker, text) {
		if (!text) return;
		console.log('` + Tag + `' + JSON.stringify({ v: 1, speaker: speaker || 'Unknown', text: text }));
	}

	function scan(node) {
		if (!node || node.nodeType !== 1) return;
		for (var i = 0; i < CONTAINERS.length; i++) {
			var c = CONTAINERS[i];
			var roots = [];
			if (node.matches && node.matches(c.root)) roots.push(node);
			if (node.querySelectorAll) {
				roots = roots.concat(Array.prototype.slice.call(node.querySelectorAll(c.root)));
			}
			if (!roots.length) continue;
			for (var j = 0; j < roots.length; j++) {
				var root = roots[j];
				var speaker = c.speaker ? textOf(root.querySelector(c.speaker)) : '';
				var text = c.text ? textOf(root.querySelector(c.text)) : textOf(root);
				emit(speaker, text);
			}
			return;
		}
	}

	var observer = new MutationObserver(function(mutations) {
		for (var m = 0; m < mutations.length; m++) {
			var added = mutations[m].addedNodes;
			for (var n = 0; n < added.length; n++) scan(added[n]);
		}
	});

	function start() {
		observer.observe(document.documentElement, { childList: true, subtree: true });
	}
	if (document.readyState === 'loading') {
		document.addEventListener('DOMContentLoaded', start);
	} else {
		start();
	}
})();`
