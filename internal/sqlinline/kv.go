package sqlinline

const QSelectKVEntry = `--sql 3f1c9a74-5b2e-4d18-a6c3-0e9d7b41f285
select value
from kv_entries
where key = $1::text
limit 1;
`

const QUpsertKVEntry = `--sql a82d06e1-9c4f-4b7a-8e15-d3c27f690b4e
insert into kv_entries (key, value, updated_at)
values ($1::text, $2::text, now())
on conflict (key) do update set
    value = excluded.value,
    updated_at = now();
`

const QDeleteKVEntries = `--sql 5e90b3d8-17a6-42c9-bf04-8c6a1e2d7f53
delete from kv_entries
where key = any($1::text[]);
`

const QListKVKeys = `--sql c4b7e215-6a08-4f3d-9d21-71e5a0c8b396
select key
from kv_entries
order by key;
`
