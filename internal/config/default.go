package config

// defaultConfig is used when no config file is found. Credentials come from
// the environment (or a .env file).
const defaultConfig = `
polling_interval: 30m

state:
  backend: json
  path: jobs.json

search:
  api_key: "${GOOGLE_API_KEY}"
  engine_id: "${GOOGLE_CX}"
  query: '("Junior Software Developer" OR "Junior Software Engineer" OR "Junior Full Stack" OR "Junior Full-Stack")'
  exclude_terms:
    # senior-ish roles
    - Senior
    - Manager
    - Architect
    - Principal
    - Mid
    - Midlevel
    - Director
    - Head
    - Experienced
    # unrelated roles that sneak in
    - SOC
    - NOC
  sites:
    - il.linkedin.com/jobs
  geolocation: il
  country: countryIL
  date_restrict: d3
  max_pages: 3
  page_size: 10
  page_delay: 1s

notification:
  type: telegram
  bot_token: "${TELEGRAM_BOT_TOKEN}"
  chat_id: "${TELEGRAM_CHAT_ID}"
  message_delay: 1s
`
